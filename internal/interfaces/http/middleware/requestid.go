// Package middleware provides the gin middleware chain for the API server.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the canonical request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader propagates the request ID to the client.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a fresh server-side UUID. A client-supplied
// X-Request-ID is kept as a separate context value, never trusted as the
// canonical ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			c.Set("client_request_id", clientID)
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
