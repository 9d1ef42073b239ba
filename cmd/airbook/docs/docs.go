// Package docs holds the OpenAPI document served at /swagger. Regenerate it with
// `swag init -g cmd/airbook/main.go -o cmd/airbook/docs` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/flights/search": {
            "get": {
                "description": "Route/date search with price, carrier, destination and stop refinements",
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Search scheduled flights",
                "parameters": [
                    {"type": "string", "description": "Origin", "name": "origin", "in": "query"},
                    {"type": "string", "description": "Destination", "name": "destination", "in": "query"},
                    {"type": "string", "description": "Departure day (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Passenger count", "name": "passengers", "in": "query"},
                    {"type": "integer", "description": "Price ceiling in minor units", "name": "max_price", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Allowed carriers", "name": "airline", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Allowed destinations", "name": "destination_in", "in": "query"},
                    {"type": "string", "description": "any, nonstop or 1stop", "name": "stops", "in": "query"},
                    {"type": "string", "description": "price, duration or departure", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/flight.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/flights": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Publish a flight",
                "parameters": [
                    {"description": "Flight", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/flight.CreateInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/flight.Flight"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Body"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/flights/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Get a flight",
                "parameters": [
                    {"type": "string", "description": "Flight ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/flight.Flight"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Edit price, schedule or status",
                "parameters": [
                    {"type": "string", "description": "Flight ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/flight.Patch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/flight.Flight"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "List the caller's bookings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/booking.Booking"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book seats on a flight",
                "parameters": [
                    {"description": "Booking request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/booking.BookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/booking.Booking"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperr.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Body"}},
                    "409": {"description": "NOT_BOOKABLE or INSUFFICIENT_SEATS", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/bookings/confirmation/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Find a booking by confirmation code",
                "parameters": [
                    {"type": "string", "description": "Confirmation code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booking.Booking"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get one of the caller's bookings",
                "parameters": [
                    {"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booking.Booking"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/apperr.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/bookings/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Refunded when at least 24 hours before departure, otherwise cancelled",
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Cancel a booking",
                "parameters": [
                    {"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booking.Booking"}},
                    "409": {"description": "INVALID_STATE", "schema": {"$ref": "#/definitions/apperr.Body"}}
                }
            }
        },
        "/v1/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Platform-wide statistics",
                "parameters": [
                    {"type": "string", "default": "all", "description": "today, week, month or all", "name": "window", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.Stats"}}
                }
            }
        },
        "/v1/companies/{id}/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Statistics for one airline company",
                "parameters": [
                    {"type": "string", "description": "Company ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "all", "description": "today, week, month or all", "name": "window", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.Stats"}}
                }
            }
        }
    },
    "definitions": {
        "apperr.Body": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "flight.Flight": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "company_id": {"type": "string"},
                "company_name": {"type": "string"},
                "flight_number": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "departure_time": {"type": "string"},
                "arrival_time": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "price": {"type": "integer"},
                "available_seats": {"type": "integer"},
                "total_seats": {"type": "integer"},
                "stops": {"type": "integer"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "flight.CreateInput": {
            "type": "object",
            "required": ["flight_number", "origin", "destination", "departure_time", "arrival_time", "total_seats"],
            "properties": {
                "company_id": {"type": "string"},
                "flight_number": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "departure_time": {"type": "string"},
                "arrival_time": {"type": "string"},
                "price": {"type": "integer"},
                "total_seats": {"type": "integer"},
                "stops": {"type": "integer"}
            }
        },
        "flight.Patch": {
            "type": "object",
            "properties": {
                "price": {"type": "integer"},
                "departure_time": {"type": "string"},
                "arrival_time": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "flight.SearchResult": {
            "type": "object",
            "properties": {
                "metadata": {
                    "type": "object",
                    "properties": {
                        "total_results": {"type": "integer"},
                        "base_results": {"type": "integer"},
                        "search_time_ms": {"type": "integer"},
                        "cache_hit": {"type": "boolean"}
                    }
                },
                "flights": {"type": "array", "items": {"$ref": "#/definitions/flight.Flight"}},
                "airlines": {"type": "array", "items": {"type": "string"}},
                "destinations": {"type": "array", "items": {"type": "string"}}
            }
        },
        "booking.BookRequest": {
            "type": "object",
            "required": ["flight_id"],
            "properties": {
                "flight_id": {"type": "string"},
                "passengers": {"type": "integer"}
            }
        },
        "booking.Booking": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "confirmation_code": {"type": "string"},
                "user_id": {"type": "string"},
                "flight_id": {"type": "string"},
                "passengers": {"type": "integer"},
                "total_price": {"type": "integer"},
                "status": {"type": "string"},
                "booked_at": {"type": "string"},
                "cancelled_at": {"type": "string"},
                "flight": {"$ref": "#/definitions/flight.Flight"}
            }
        },
        "identity.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "blocked": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "stats.Stats": {
            "type": "object",
            "properties": {
                "window": {"type": "string"},
                "total_flights": {"type": "integer"},
                "active_flights": {"type": "integer"},
                "completed_flights": {"type": "integer"},
                "cancelled_flights": {"type": "integer"},
                "total_bookings": {"type": "integer"},
                "total_passengers": {"type": "integer"},
                "total_revenue": {"type": "integer"},
                "average_booking_value": {"type": "integer"},
                "cancelled_bookings": {"type": "integer"},
                "refunded_bookings": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Airbook Flight Booking API",
	Description:      "Flight search, seat booking and airline administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
