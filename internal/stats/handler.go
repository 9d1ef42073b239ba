package stats

import (
	"airbook/internal/apperr"
	"airbook/internal/httpx"
	"airbook/internal/identity"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service *Service
}

func NewStatsHandler(s *Service) *StatsHandler {
	return &StatsHandler{service: s}
}

func (h *StatsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/v1/admin/stats", identity.RequireRole(identity.RoleAdmin), h.PlatformStatsHandler)
	router.GET("/v1/companies/:id/stats", identity.RequireRole(identity.RoleCompany, identity.RoleAdmin), h.CompanyStatsHandler)
}

// PlatformStatsHandler godoc
// @Summary      Platform-wide statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        window query string false "today, week, month or all" default(all)
// @Success      200 {object} Stats
// @Router       /v1/admin/stats [get]
func (h *StatsHandler) PlatformStatsHandler(c *gin.Context) {
	w, err := ParseWindow(c.Query("window"))
	if err != nil {
		apperr.Respond(c, apperr.InvalidRequest("%v", err))
		return
	}

	out, err := h.service.Platform(c.Request.Context(), identity.FromContext(c), w)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CompanyStatsHandler godoc
// @Summary      Statistics for one airline company
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Company ID"
// @Param        window query string false "today, week, month or all" default(all)
// @Success      200 {object} Stats
// @Router       /v1/companies/{id}/stats [get]
func (h *StatsHandler) CompanyStatsHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	w, err := ParseWindow(c.Query("window"))
	if err != nil {
		apperr.Respond(c, apperr.InvalidRequest("%v", err))
		return
	}

	out, err := h.service.Company(c.Request.Context(), identity.FromContext(c), id, w)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
