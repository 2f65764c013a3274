package middleware

import (
	"net/http"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/logger"
	"sk8_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// RateLimit gates the request through the shared limiter, keyed by the
// caller's uid (anonymous before auth), client ip and the action name.
// Runs after Auth on protected routes so the uid is available.
func RateLimit(limiter service.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("uid")

		if err := limiter.Allow(c.Request.Context(), uid, c.ClientIP(), action); err != nil {
			if domain.KindOf(err) == domain.KindResourceExhausted {
				RLBlocked.WithLabelValues(action).Inc()
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please slow down"})
				return
			}
			// limiter backend trouble is not the caller's fault
			logger.Warn("rate limiter error, allowing request", "action", action, "error", err)
		}

		RLRequests.WithLabelValues(action).Inc()
		c.Next()
	}
}
