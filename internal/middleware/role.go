package middleware

import (
	"designshop/internal/modules/access"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireManagement admits management and administrators.
func RequireManagement() gin.HandlerFunc {
	return requireCaller(func(c *access.Caller) bool { return c.IsManagementOrAbove() }, access.ErrManagementOnly)
}

// RequireAdministrator admits administrators only.
func RequireAdministrator() gin.HandlerFunc {
	return requireCaller(func(c *access.Caller) bool { return c.IsAdministrator() }, access.ErrAdministratorOnly)
}

func requireCaller(allowed func(*access.Caller) bool, denied error) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			response.FromError(c, access.ErrNotAuthenticated)
			c.Abort()
			return
		}
		if !allowed(caller) {
			response.FromError(c, denied)
			c.Abort()
			return
		}
		c.Next()
	}
}
