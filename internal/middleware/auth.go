package middleware

import (
	"net/http"
	"strings"

	"designshop/internal/modules/access"
	"designshop/internal/pkg/jwt"
	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// JWTAuth validates the bearer token and stores user_id and username.
func JWTAuth(jwtSvc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtSvc.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalJWTAuth behaves like JWTAuth when a token is present and lets
// anonymous requests through otherwise.
func OptionalJWTAuth(jwtSvc *jwt.Service) gin.HandlerFunc {
	strict := JWTAuth(jwtSvc)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		strict(c)
	}
}

// ResolveCaller turns the token identity into an access.Caller. A token for a
// user that no longer exists is rejected here.
func ResolveCaller(resolver *access.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			c.Next()
			return
		}

		caller, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(callerKey, caller)
		ctx := logger.WithContext(c.Request.Context(),
			logger.FromContext(c.Request.Context()).With("user_id", caller.UserID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CallerFrom returns the resolved caller, or nil for anonymous requests.
func CallerFrom(c *gin.Context) *access.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*access.Caller)
	return caller
}

// RequireCaller aborts anonymous requests with 401.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c) == nil {
			response.FromError(c, access.ErrNotAuthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}
