package booking

import (
	"airbook/internal/apperr"
	"airbook/internal/httpx"
	"airbook/internal/identity"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service *Service
}

func NewBookingHandler(s *Service) *BookingHandler {
	return &BookingHandler{service: s}
}

func (h *BookingHandler) RegisterRoutes(router gin.IRouter) {
	authed := router.Group("", identity.RequireAuth())
	authed.POST("/v1/bookings", h.BookHandler)
	authed.GET("/v1/bookings", h.ListMyBookingsHandler)
	authed.GET("/v1/bookings/confirmation/:code", h.LookupHandler)
	authed.GET("/v1/bookings/:id", h.GetBookingHandler)
	authed.POST("/v1/bookings/:id/cancel", h.CancelHandler)

	manage := router.Group("", identity.RequireRole(identity.RoleCompany, identity.RoleAdmin))
	manage.GET("/v1/flights/:id/bookings", h.ListFlightBookingsHandler)
	manage.GET("/v1/companies/:id/bookings", h.ListCompanyBookingsHandler)
}

// BookHandler godoc
// @Summary      Book seats on a flight
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BookRequest true "Booking request"
// @Success      201 {object} Booking
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string "NOT_BOOKABLE or INSUFFICIENT_SEATS"
// @Router       /v1/bookings [post]
func (h *BookingHandler) BookHandler(c *gin.Context) {
	var req BookRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	b, err := h.service.Book(c.Request.Context(), identity.FromContext(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListMyBookingsHandler godoc
// @Summary      List the caller's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Booking
// @Router       /v1/bookings [get]
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), identity.FromContext(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingHandler godoc
// @Summary      Get one of the caller's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} Booking
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	b, err := h.service.Get(c.Request.Context(), identity.FromContext(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// LookupHandler godoc
// @Summary      Find a booking by confirmation code
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Confirmation code"
// @Success      200 {object} Booking
// @Failure      404 {object} map[string]string
// @Router       /v1/bookings/confirmation/{code} [get]
func (h *BookingHandler) LookupHandler(c *gin.Context) {
	ident := identity.FromContext(c)

	b, err := h.service.LookupByConfirmationCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if b.UserID != ident.UserID && ident.Role != identity.RoleAdmin {
		apperr.Respond(c, apperr.NotFound("booking not found"))
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelHandler godoc
// @Summary      Cancel a booking
// @Description  Refunded when at least 24 hours before departure, otherwise cancelled
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} Booking
// @Failure      409 {object} map[string]string "INVALID_STATE"
// @Router       /v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), identity.FromContext(c), id, h.service.now())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListFlightBookingsHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	bookings, err := h.service.ListForFlight(c.Request.Context(), identity.FromContext(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ListCompanyBookingsHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	bookings, err := h.service.ListForCompany(c.Request.Context(), identity.FromContext(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
