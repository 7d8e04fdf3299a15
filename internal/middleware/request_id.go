package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the request context and response,
// reusing the caller's ID when one is supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		if guildID := c.Param("guild_id"); guildID != "" {
			ctx = context.WithValue(ctx, logger.GuildIDKey, guildID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
