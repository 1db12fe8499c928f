package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/prescription-api/pkg/logger"
)

// Logger returns a middleware that logs HTTP requests with the request's
// correlation id. Must run after CorrelationID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		event := logger.FromContext(c.Request.Context()).Info()
		if statusCode >= 500 {
			event = logger.FromContext(c.Request.Context()).Error()
		} else if statusCode >= 400 {
			event = logger.FromContext(c.Request.Context()).Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request processed")
	}
}
