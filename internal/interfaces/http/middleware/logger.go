package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"blinkpay.backend/pkg/logger"
)

// Logger logs every request through the structured logger, with the request
// id already in the context courtesy of RequestID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())
	}
}
