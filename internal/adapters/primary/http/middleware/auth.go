package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const headerAPIKey = "X-API-KEY"

// APIKeyAuth rejects requests whose X-API-KEY header does not match the
// configured key. Failed attempts are logged with the client address;
// the response never says whether the key was missing or wrong.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(headerAPIKey)
		if provided == "" || provided != key {
			log.WithFields(log.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			}).Warn("invalid API key attempt")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}

		c.Next()
	}
}
