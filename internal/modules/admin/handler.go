package admin

import (
	"net/http"
	"strconv"

	"designshop/internal/domain"
	"designshop/internal/middleware"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts user administration and the audit log on the
// authenticated /auth group. Every route is administrator-only.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := protected.Group("", middleware.RequireAdministrator())

	admin.GET("/users", h.ListUsers)
	admin.PUT("/users/:id/role", h.SetRole)
	admin.POST("/users/:id/types", h.AddUserType)
	admin.DELETE("/users/:id/types/:typeId", h.RemoveUserType)
	admin.DELETE("/users/:id", h.DeleteUser)

	admin.GET("/logs", h.Logs)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil || id <= 0 {
		response.FromError(c, ErrInvalidUserID)
		return 0, false
	}
	return id, true
}

// ListUsers returns every user with role name and user types.
// @Summary		List users
// @Tags		Admin
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{} "Admin access required"
// @Router		/auth/users [GET]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// SetRole changes a user's role.
// @Summary		Update user role
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	int				true	"User ID"
// @Param		request	body	SetRoleRequest	true	"Role ID (1-4)"
// @Failure		400	{object}	map[string]interface{} "Invalid role ID"
// @Failure		404	{object}	map[string]interface{} "User not found"
// @Router		/auth/users/{id}/role [PUT]
func (h *Handler) SetRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrInvalidRole)
		return
	}
	if err := h.service.SetRole(c.Request.Context(), middleware.CallerFrom(c), id, domain.RoleID(req.RoleID)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "Role updated"})
}

// @Summary		Add user type
// @Tags		Admin
// @Security	BearerAuth
// @Param		id		path	int					true	"User ID"
// @Param		request	body	AddUserTypeRequest	true	"User type ID (1 customer, 2 designer)"
// @Router		/auth/users/{id}/types [POST]
func (h *Handler) AddUserType(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req AddUserTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrInvalidUserType)
		return
	}
	if err := h.service.AddUserType(c.Request.Context(), middleware.CallerFrom(c), id, domain.UserTypeID(req.UserTypeID)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "User type added"})
}

func (h *Handler) RemoveUserType(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	typeID, err := parseIDParam(c, "typeId")
	if err != nil {
		response.FromError(c, ErrInvalidUserType)
		return
	}
	if err := h.service.RemoveUserType(c.Request.Context(), middleware.CallerFrom(c), id, domain.UserTypeID(typeID)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "User type removed"})
}

// DeleteUser removes a user and all dependent rows.
// @Summary		Delete user
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	int	true	"User ID"
// @Failure		400	{object}	map[string]interface{} "Cannot delete your own account"
// @Failure		404	{object}	map[string]interface{} "User not found"
// @Router		/auth/users/{id} [DELETE]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// Logs returns the 100 most recent audit entries.
// @Summary		Audit log
// @Tags		Admin
// @Security	BearerAuth
// @Router		/auth/logs [GET]
func (h *Handler) Logs(c *gin.Context) {
	entries, err := h.service.Logs(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
