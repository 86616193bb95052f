package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

const (
	// HeaderCorrelationID ties a card run to whatever triggered it upstream.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID works like RequestID for X-Correlation-ID. A scheduler that
// triggers runs can pass one ID through every request it makes.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(HeaderCorrelationID, ContextKeyCorrelationID,
		ContextWithCorrelationID,
		logging.WithCorrelationID,
	)
}

// GetCorrelationID returns the correlation ID, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
