package designer

import (
	"net/http"
	"strconv"

	"designshop/internal/middleware"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the workflow under an authenticated /auth group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/request-designer", h.Create)
	protected.GET("/my-designer-request", h.Mine)

	review := protected.Group("/designer-requests", middleware.RequireManagement())
	review.GET("", h.Pending)
	review.POST("/:id/approve", h.Approve)
	review.POST("/:id/deny", h.Deny)
}

// Create submits a designer request for the caller.
// @Summary		Request designer status
// @Tags		Designer requests
// @Security	BearerAuth
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Already a designer or request pending"
// @Failure		403	{object}	map[string]interface{} "Caller is not a customer"
// @Router		/auth/request-designer [POST]
func (h *Handler) Create(c *gin.Context) {
	req, err := h.svc.Create(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, MessageResponse{
		Message: "Designer request submitted",
		Request: req,
	})
}

// Mine returns the caller's latest request or null.
// @Summary		My designer request
// @Tags		Designer requests
// @Security	BearerAuth
// @Router		/auth/my-designer-request [GET]
func (h *Handler) Mine(c *gin.Context) {
	req, err := h.svc.Mine(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}

// @Summary		Pending designer requests
// @Tags		Designer requests
// @Security	BearerAuth
// @Router		/auth/designer-requests [GET]
func (h *Handler) Pending(c *gin.Context) {
	out, err := h.svc.Pending(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// @Summary		Approve designer request
// @Tags		Designer requests
// @Security	BearerAuth
// @Param		id	path	int	true	"Request ID"
// @Router		/auth/designer-requests/{id}/approve [POST]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	if err := h.svc.Approve(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "Request approved"})
}

// @Summary		Deny designer request
// @Tags		Designer requests
// @Security	BearerAuth
// @Param		id	path	int	true	"Request ID"
// @Router		/auth/designer-requests/{id}/deny [POST]
func (h *Handler) Deny(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	if err := h.svc.Deny(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: "Request denied"})
}

func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, ErrInvalidRequestID)
		return 0, false
	}
	return id, true
}
