package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// contextKeyRequestID is where RequestID stores the ID for downstream
// handlers and the logging middleware.
const contextKeyRequestID = "request_id"

// RequestID tags every request with an ID, honoring one the client sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(contextKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}
