package auth

import (
	"net/http"

	"designshop/internal/middleware"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public auth routes. The group is expected to
// run OptionalJWTAuth and ResolveCaller so /me can see a token if present.
func (h *Handler) RegisterRoutes(authGroup *gin.RouterGroup) {
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me)
	authGroup.GET("/check-username/:username", h.CheckUsername)
	authGroup.GET("/check-email/:email", h.CheckEmail)
}

// Register creates a customer account.
// @Summary		Register
// @Description	Creates a regular user with the customer type.
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"Username, email and password"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Missing fields or user already exists"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrMissingFields)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, RegisterResponse{
		Message: "Registered",
		UserID:  user.ID,
	})
}

// Login exchanges credentials for a bearer token.
// @Summary		Login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Email and password"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{} "Invalid email or password"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrInvalidCredentials)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Message: "Logged in",
		Token:   res.AccessToken,
		User:    res.User,
	})
}

// Logout is a no-op for bearer tokens; clients drop the token.
func (h *Handler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the current user, or null without a token.
// @Summary		Current user
// @Tags		Auth
// @Security	BearerAuth
// @Router		/auth/me [GET]
func (h *Handler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) CheckUsername(c *gin.Context) {
	ok, err := h.service.UsernameAvailable(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvailabilityResponse{Available: ok})
}

func (h *Handler) CheckEmail(c *gin.Context) {
	ok, err := h.service.EmailAvailable(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvailabilityResponse{Available: ok})
}
