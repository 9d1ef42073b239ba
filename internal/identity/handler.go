package identity

import (
	"airbook/internal/apperr"
	"airbook/internal/httpx"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *Service
}

func NewUserHandler(s *Service) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	admin := router.Group("/v1/admin/users", RequireRole(RoleAdmin))
	admin.GET("", h.ListUsersHandler)
	admin.GET("/:id", h.GetUserHandler)
	admin.POST("/:id/block", h.BlockUserHandler)
	admin.POST("/:id/unblock", h.UnblockUserHandler)
	admin.POST("/:id/role", h.SetRoleHandler)

	router.GET("/v1/auth/me", RequireAuth(), h.MeHandler)
}

// MeHandler godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} User
// @Failure      401 {object} map[string]string
// @Router       /v1/auth/me [get]
func (h *UserHandler) MeHandler(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), FromContext(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) GetUserHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	u, err := h.service.Get(c.Request.Context(), FromContext(c), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsersHandler godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} User
// @Failure      403 {object} map[string]string
// @Router       /v1/admin/users [get]
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.List(c.Request.Context(), FromContext(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) BlockUserHandler(c *gin.Context) {
	h.setBlocked(c, true)
}

func (h *UserHandler) UnblockUserHandler(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *UserHandler) setBlocked(c *gin.Context, blocked bool) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	u, err := h.service.SetBlocked(c.Request.Context(), FromContext(c), id, blocked)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type setRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

// SetRoleHandler godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body setRoleRequest true "New role"
// @Success      200 {object} User
// @Router       /v1/admin/users/{id}/role [post]
func (h *UserHandler) SetRoleHandler(c *gin.Context) {
	id, err := httpx.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req setRoleRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	u, err := h.service.SetRole(c.Request.Context(), FromContext(c), id, req.Role)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
