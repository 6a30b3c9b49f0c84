package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type RequestMetrics interface {
	RecordRequest(ctx context.Context, method, path, status string, duration time.Duration)
	IncrementActiveConnections(ctx context.Context)
	DecrementActiveConnections(ctx context.Context)
}

func MetricsMiddleware(metrics RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()

		// unmatched routes would otherwise explode label cardinality
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
