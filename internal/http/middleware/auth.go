package middleware

import (
	"net/http"
	"strings"

	"sk8_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Auth validates the bearer token and stores the caller's uid in the
// request context for handlers and the rate limiter.
func Auth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		uid, err := tokens.Parse(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("uid", uid)
		c.Next()
	}
}
