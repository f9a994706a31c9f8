package middleware

import (
	"strconv"
	"time"

	ports "yatube-post-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

func Metrics(metrics ports.MetricsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		r := route(c)
		metrics.IncrementHTTPRequests(c.Request.Method, r, status)
		metrics.RecordHTTPRequestDuration(c.Request.Method, r, status, time.Since(start))
	}
}
