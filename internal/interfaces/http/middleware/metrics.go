package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latency by route template.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		active := m.HTTPActiveRequests.WithLabelValues()
		active.Inc()
		start := time.Now()
		c.Next()
		active.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
