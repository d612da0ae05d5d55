package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schedgen/schedgen/pkg/metrics"
)

// Metrics returns middleware that records request latency and outcome
// status against m.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
