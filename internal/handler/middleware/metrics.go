package middleware

import (
	"strconv"
	"time"

	"marketplace-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request latency labelled by route template, so path
// parameters do not blow up label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
