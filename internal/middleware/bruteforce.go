package middleware

import (
	"github.com/gin-gonic/gin"

	"staticman-gateway/pkg/response"
)

// BruteForce counts requests per client IP and rejects clients over their
// allowance with 429.
func (m Middleware) BruteForce() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := c.ClientIP()

		d := m.limiter.Allow(ctx, key)
		if !d.Allowed {
			m.l.Warnf(ctx, "middleware.BruteForce: client %s blocked after %d requests", key, d.Hits)
			response.TooManyRequests(c, d.RetryAfter)
			return
		}

		c.Next()
	}
}
