package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type enricher func(ctx context.Context, id string) context.Context

// idMiddleware reads an ID header or mints a UUID, echoes it back and runs
// each enricher over the request context.
func idMiddleware(header, key string, enrich ...enricher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)

		ctx := c.Request.Context()
		for _, fn := range enrich {
			ctx = fn(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
