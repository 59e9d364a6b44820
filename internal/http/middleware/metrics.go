package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder receives one observation per request. observability.Metrics implements it.
type HTTPRecorder interface {
	HTTPRequest(method, route, status string, elapsed time.Duration)
}

// Metrics instruments HTTP request counts/latency when metrics are enabled.
func Metrics(m HTTPRecorder) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequest(c.Request.Method, route, status, time.Since(start))
	}
}
