package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/infrastructure/metrics"
)

// unmatchedRoute labels requests no route matched, so raw paths never
// become label values
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight requests
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := reg.RequestStarted()
		defer done()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		reg.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
