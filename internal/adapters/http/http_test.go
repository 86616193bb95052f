package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-card-bot/internal/app"
	"github.com/jsamuelsen/quote-card-bot/internal/mocks"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
	"github.com/jsamuelsen/quote-card-bot/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(host string, port int, maxBody int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:            host,
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		MaxRequestSize:  maxBody,
	}
}

func testCardHandler(t *testing.T) *handlers.CardHandler {
	t.Helper()

	pipeline := app.NewPipeline(app.PipelineConfig{
		Resolver:   mocks.NewMockMetadataResolver(t),
		Compositor: mocks.NewMockCompositor(t),
		Publisher:  mocks.NewMockPublisher(t),
		Logger:     discardLogger(),
	})

	return handlers.NewCardHandler(app.NewCardService(app.CardServiceConfig{
		Source:   mocks.NewMockQuoteSource(t),
		Pipeline: pipeline,
		Logger:   discardLogger(),
	}))
}

func TestServer_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := New(testServerConfig(tt.host, tt.port, 1<<10), discardLogger())

			assert.Equal(t, tt.want, srv.Addr())
			assert.NotNil(t, srv.Engine())
		})
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0, 1<<10), discardLogger())

	errCh := srv.Start()

	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, ok := <-errCh
	assert.False(t, ok, "error channel should be closed")
}

func TestServer_StartReportsListenError(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", -1, 1<<10), discardLogger())

	select {
	case err := <-srv.Start():
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server error")
	case <-time.After(5 * time.Second):
		t.Fatal("expected a listen error")
	}
}

func TestServer_MaxBodySize(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0, 64), discardLogger())
	SetupRouter(srv.Engine(), RouterConfig{
		Logger:      discardLogger(),
		ServiceName: "quote-card-bot",
		CardHandler: testCardHandler(t),
	})

	small := httptest.NewRecorder()
	srv.Engine().ServeHTTP(small, httptest.NewRequest(http.MethodPost, "/api/v1/layout",
		strings.NewReader(`{"text":"Play it, Sam."}`)))
	assert.Equal(t, http.StatusOK, small.Code)

	big := httptest.NewRecorder()
	srv.Engine().ServeHTTP(big, httptest.NewRequest(http.MethodPost, "/api/v1/layout",
		strings.NewReader(`{"text":"`+strings.Repeat("Sam ", 40)+`"}`)))
	assert.Equal(t, http.StatusBadRequest, big.Code)
}

func TestSetupRouter(t *testing.T) {
	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(&ports.HealthResult{
		Status: ports.HealthStatusHealthy,
		Checks: map[string]*ports.CheckResult{},
	}).Maybe()

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:        discardLogger(),
		ServiceName:   "quote-card-bot",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{Version: "test"}),
		CardHandler:   testCardHandler(t),
	})

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"POST /api/v1/cards",
		"POST /api/v1/layout",
	} {
		assert.True(t, routes[want], "missing route: %s", want)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}

func TestSetupRouter_APIDeadline(t *testing.T) {
	engine := gin.New()
	api := SetupRouter(engine, RouterConfig{Logger: discardLogger(), ServiceName: "quote-card-bot", Timeout: time.Minute})

	var deadline time.Time

	api.GET("/probe", func(c *gin.Context) {
		deadline, _ = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/probe", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestSetupRouter_RecoversPanics(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, RouterConfig{Logger: discardLogger(), ServiceName: "quote-card-bot"})
	engine.GET("/api/v1/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
