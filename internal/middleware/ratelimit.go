package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/limiter"
	"go.uber.org/zap"
)

// RateLimit applies the limiter's window for action, keyed by the session
// user or, before authentication, the client IP. A nil limiter or a storage
// failure lets the request through.
func RateLimit(l *limiter.Limiter, action string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		clientID := "ip:" + c.ClientIP()
		if session, ok := auth.CurrentSession(c); ok {
			clientID = "user:" + session.UserID()
		}

		result, err := l.Check(c.Request.Context(), clientID, action)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			recordRateLimited(action)
			abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
