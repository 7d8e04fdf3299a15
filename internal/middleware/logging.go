package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// RequestLogger logs one line per request with latency and status
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		entry := log.WithContext(c.Request.Context())
		if c.Writer.Status() >= 500 {
			entry.Error("request completed", fields...)
		} else {
			entry.Info("request completed", fields...)
		}
	}
}
