package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Muhammed-IrfanAC/signup-bot/pkg/response"
)

// ServiceToken authenticates requests with a static bearer token. The only
// caller is the command surface (the bot process); there are no user
// sessions. An empty configured token disables the check.
func ServiceToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Missing bearer token"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Invalid service token"))
			return
		}
		c.Next()
	}
}
