package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/filmgraph/pkg/metrics"
)

// Metrics 按路由模板统计请求数与延迟
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
