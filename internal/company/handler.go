package company

import (
	"airbook/internal/apperr"
	"airbook/internal/httpx"
	"airbook/internal/identity"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	service *Service
}

func NewCompanyHandler(s *Service) *CompanyHandler {
	return &CompanyHandler{service: s}
}

func (h *CompanyHandler) RegisterRoutes(router gin.IRouter) {
	admin := router.Group("/v1/companies", identity.RequireRole(identity.RoleAdmin))
	admin.GET("", h.ListCompaniesHandler)
	admin.POST("", h.CreateCompanyHandler)
	admin.GET("/:id", h.GetCompanyHandler)
	admin.POST("/:id/manager", h.AssignManagerHandler)
	admin.POST("/:id/active", h.SetActiveHandler)
}

// ListCompaniesHandler godoc
// @Summary      List airline companies
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Company
// @Router       /v1/companies [get]
func (h *CompanyHandler) ListCompaniesHandler(c *gin.Context) {
	companies, err := h.service.List(c.Request.Context(), identity.FromContext(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) GetCompanyHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// CreateCompanyHandler godoc
// @Summary      Create an airline company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Company"
// @Success      201 {object} Company
// @Failure      400 {object} map[string]string
// @Router       /v1/companies [post]
func (h *CompanyHandler) CreateCompanyHandler(c *gin.Context) {
	var req CreateInput
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), identity.FromContext(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type assignManagerRequest struct {
	UserID int64 `json:"user_id,string" binding:"required"`
}

func (h *CompanyHandler) AssignManagerHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req assignManagerRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	updated, err := h.service.AssignManager(c.Request.Context(), identity.FromContext(c), id, req.UserID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *CompanyHandler) SetActiveHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req setActiveRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	updated, err := h.service.SetActive(c.Request.Context(), identity.FromContext(c), id, *req.Active)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
