package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Counter is satisfied by *cache.Redis.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit applies a fixed one-minute window per caller (or client IP for
// anonymous requests). A nil counter or a non-positive limit disables it, and
// counter failures let the request through.
func RateLimit(counter Counter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		subject := "ip:" + c.ClientIP()
		if caller := CallerFrom(c); caller != nil {
			subject = "user:" + strconv.FormatInt(caller.UserID, 10)
		}
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", subject, window)

		count, err := counter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limit counter failed", "err", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		if count > int64(perMinute) {
			c.Header("Retry-After", "60")
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		c.Next()
	}
}
