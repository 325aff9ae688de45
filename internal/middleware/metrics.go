package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exhibit-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request latency per route template. Paths listed in skip are not observed.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		// raw paths carry submission ids; keep label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
