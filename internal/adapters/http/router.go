package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/telemetry"
)

// DefaultRequestTimeout applies when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 45 * time.Second

// RouterConfig contains what SetupRouter wires onto the engine.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName names the otelgin tracer.
	ServiceName string

	HealthHandler *handlers.HealthHandler
	CardHandler   *handlers.CardHandler

	// Timeout bounds each /api/v1 request. A card run includes two
	// outbound calls and a render, so keep it below the server write timeout.
	Timeout time.Duration
}

// SetupRouter installs middleware and routes. Global middleware runs in
// this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Logging, which skips /-/ routes
//
// Routes:
//   - /-/live, /-/ready, /-/build, /-/metrics
//   - POST /api/v1/cards, POST /api/v1/layout (with Timeout)
//
// The /api/v1 group is returned for further routes.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) *gin.RouterGroup {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.Timeout(timeout))

	if cfg.CardHandler != nil {
		cfg.CardHandler.RegisterCardRoutes(api)
	}

	return api
}
