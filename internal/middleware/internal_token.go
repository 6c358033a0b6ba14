package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// StaticTokenAuth protects operational endpoints such as /metrics with a
// static bearer token. An empty token leaves the endpoint open.
func StaticTokenAuth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logTokenFailure(c, http.StatusUnauthorized, "missing_auth")
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logTokenFailure(c, http.StatusUnauthorized, "invalid_auth_format")
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logTokenFailure(c, http.StatusForbidden, "invalid_token")
			response.Abort(c, http.StatusForbidden, "INVALID_TOKEN", "Invalid token")
			return
		}

		c.Next()
	}
}

func logTokenFailure(c *gin.Context, status int, reason string) {
	logger.FromContext(c.Request.Context()).Warn("static token auth failed",
		"status", status,
		"path", c.Request.URL.Path,
		"reason", reason,
	)
}
