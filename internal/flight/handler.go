package flight

import (
	"airbook/internal/apperr"
	"airbook/internal/httpx"
	"airbook/internal/identity"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service *Service
}

func NewFlightHandler(s *Service) *FlightHandler {
	return &FlightHandler{
		service: s,
	}
}

func (h *FlightHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/v1/flights/search", h.SearchFlightsHandler)
	router.GET("/v1/flights/:id", h.GetFlightHandler)

	manage := router.Group("", identity.RequireRole(identity.RoleCompany, identity.RoleAdmin))
	manage.POST("/v1/flights", h.CreateFlightHandler)
	manage.PATCH("/v1/flights/:id", h.UpdateFlightHandler)
	manage.POST("/v1/flights/:id/cancel", h.CancelFlightHandler)
	manage.GET("/v1/companies/:id/flights", h.ListCompanyFlightsHandler)
}

// SearchFlightsHandler godoc
// @Summary      Search scheduled flights
// @Description  Route/date search with price, carrier, destination and stop refinements
// @Tags         flights
// @Produce      json
// @Param        origin query string false "Origin"
// @Param        destination query string false "Destination"
// @Param        date query string false "Departure day (YYYY-MM-DD)"
// @Param        passengers query int false "Passenger count" default(1)
// @Param        max_price query int false "Price ceiling in minor units"
// @Param        airline query []string false "Allowed carriers" collectionFormat(multi)
// @Param        destination_in query []string false "Allowed destinations" collectionFormat(multi)
// @Param        stops query string false "any, nonstop or 1stop"
// @Param        sort query string false "price, duration or departure"
// @Success      200 {object} SearchResult
// @Failure      400 {object} map[string]string
// @Router       /v1/flights/search [get]
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apperr.Respond(c, apperr.InvalidRequest("invalid request format: %v", err))
		return
	}

	response, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetFlightHandler godoc
// @Summary      Get a flight
// @Tags         flights
// @Produce      json
// @Param        id path string true "Flight ID"
// @Success      200 {object} Flight
// @Failure      404 {object} map[string]string
// @Router       /v1/flights/{id} [get]
func (h *FlightHandler) GetFlightHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	f, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// CreateFlightHandler godoc
// @Summary      Publish a flight
// @Tags         flights
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Flight"
// @Success      201 {object} Flight
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /v1/flights [post]
func (h *FlightHandler) CreateFlightHandler(c *gin.Context) {
	var req CreateInput
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	f, err := h.service.Create(c.Request.Context(), identity.FromContext(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// UpdateFlightHandler godoc
// @Summary      Edit price, schedule or status
// @Tags         flights
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Flight ID"
// @Param        request body Patch true "Changes"
// @Success      200 {object} Flight
// @Failure      409 {object} map[string]string
// @Router       /v1/flights/{id} [patch]
func (h *FlightHandler) UpdateFlightHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var p Patch
	if err := httpx.BindJSON(c, &p); err != nil {
		apperr.Respond(c, err)
		return
	}

	f, err := h.service.Update(c.Request.Context(), identity.FromContext(c), id, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FlightHandler) CancelFlightHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	f, err := h.service.Cancel(c.Request.Context(), identity.FromContext(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FlightHandler) ListCompanyFlightsHandler(c *gin.Context) {
	companyID, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	flights, err := h.service.ListByCompany(c.Request.Context(), identity.FromContext(c), companyID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}
