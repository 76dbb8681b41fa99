package middleware

import (
	"crypto/subtle"

	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards admin endpoints with a static API key.
func AdminKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.AdminAPIKey)) != 1 {
			utils.RespondWithUnauthorized(c, "Invalid or missing admin key")
			c.Abort()
			return
		}
		c.Next()
	}
}
