package logging

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one event per request after the handler chain completes.
func RequestLogger() gin.HandlerFunc {
	logger := For("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if id := c.GetString("user_id"); id != "" {
			event = event.Str(PRINCIPAL, id)
		}
		event.Msg("request")
	}
}
