package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin key holding the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID takes X-Request-ID from the caller or generates one. The ID is
// echoed in the response, attached to the context logger and forwarded on
// outbound ratings and social calls.
func RequestID() gin.HandlerFunc {
	return idMiddleware(HeaderRequestID, ContextKeyRequestID,
		ContextWithRequestID,
		logging.WithRequestID,
	)
}

// GetRequestID returns the request ID, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
