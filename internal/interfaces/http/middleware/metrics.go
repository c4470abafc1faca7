package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	appmetrics "github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, latency and in-flight gauge. The route
// pattern from FullPath keeps label cardinality bounded.
func Metrics(m *appmetrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestStarted()

		c.Next()

		m.HTTPRequestFinished()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
