package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"

	defaultTimeout = 15 * time.Second

	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 90 * time.Second
)

// AuthFunc decorates an outgoing attempt with credentials.
// It runs once per attempt so refreshed tokens are picked up on retry.
type AuthFunc func(*http.Request) error

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// ServiceName identifies the downstream service in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Auth is optional.
	Auth AuthFunc

	// RoundTripper replaces the pooled transport built from Transport.
	RoundTripper http.RoundTripper

	Logger *slog.Logger
}

// ConfigFor assembles a client Config for one downstream endpoint.
func ConfigFor(endpoint config.ServiceEndpointConfig, cc config.ClientConfig, logger *slog.Logger) *Config {
	return &Config{
		BaseURL:     endpoint.BaseURL,
		ServiceName: endpoint.Name,
		Timeout:     cc.Timeout,
		Retry:       cc.Retry,
		Circuit:     cc.CircuitBreaker,
		Transport:   cc.Transport,
		Logger:      logger,
	}
}

// Client is an instrumented HTTP client for one downstream service.
// Every call goes through the circuit breaker, is retried with jittered
// exponential backoff, carries request and trace IDs, and is recorded as an
// OpenTelemetry span and metric.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	retry       config.RetryConfig
	auth        AuthFunc
	logger      *slog.Logger
	cb          *CircuitBreaker

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	cb := NewCircuitBreaker(cfg.Circuit, WithStateListener(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}))

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	rt := cfg.RoundTripper
	if rt == nil {
		rt = newTransport(cfg.Transport)
	}

	return &Client{
		http:            &http.Client{Timeout: timeout, Transport: rt},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		retry:           retry,
		auth:            cfg.Auth,
		logger:          logger,
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        tc.MaxIdleConns,
		MaxIdleConnsPerHost: tc.MaxIdleConnsPerHost,
		IdleConnTimeout:     tc.IdleConnTimeout,
	}

	if t.MaxIdleConns <= 0 {
		t.MaxIdleConns = defaultMaxIdleConns
	}

	if t.MaxIdleConnsPerHost <= 0 {
		t.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	if t.IdleConnTimeout <= 0 {
		t.IdleConnTimeout = defaultIdleConnTimeout
	}

	return t
}

// ServiceName returns the downstream name the client was built for.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// Do executes req with the circuit breaker, retries, tracing and logging.
//
// A request with a body is only retried when req.GetBody is set;
// otherwise it gets a single attempt. A 4xx response is returned to the
// caller as-is. A 5xx or 429 response is retried and, once attempts run out,
// reported as ErrMaxRetriesExceeded.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := c.requestLogger(ctx).With(
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.cb.Allow() {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	attempts := c.retry.MaxAttempts
	if hasBody(req) && req.GetBody == nil {
		attempts = 1
	}

	var (
		resp    *http.Response
		lastErr error
	)

	for attempt := range attempts {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt, logger); err != nil {
				lastErr = err
				break
			}
		}

		var retry bool

		resp, retry, lastErr = c.attempt(ctx, req, attempt, logger)
		if !retry {
			break
		}
	}

	return c.finish(ctx, req.Method, resp, lastErr, span, logger, start)
}

// attempt sends one copy of req. It reports whether another attempt is worthwhile.
func (c *Client) attempt(ctx context.Context, req *http.Request, n int, logger *slog.Logger) (*http.Response, bool, error) {
	out := req.Clone(ctx)

	if n > 0 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, false, fmt.Errorf("rewinding request body: %w", err)
		}

		out.Body = body
	}

	c.injectHeaders(ctx, out)

	if c.auth != nil {
		if err := c.auth(out); err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrAuth, err)
		}
	}

	resp, err := c.http.Do(out)
	if err != nil {
		retry := isRetryableError(err)
		logger.Debug("request attempt failed",
			slog.Int("attempt", n+1),
			slog.Bool("retryable", retry),
			slog.Any("error", err),
		)

		return nil, retry, err
	}

	if isRetryableStatus(resp.StatusCode) {
		logger.Debug("request attempt got retryable status",
			slog.Int("attempt", n+1),
			slog.Int("status", resp.StatusCode),
		)

		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("failed to close response body", slog.Any("error", closeErr))
		}

		return nil, true, &StatusError{Service: c.serviceName, StatusCode: resp.StatusCode}
	}

	return resp, false, nil
}

func (c *Client) backoff(ctx context.Context, attempt int, logger *slog.Logger) error {
	wait := c.calculateBackoff(attempt)
	logger.Debug("retrying request",
		slog.Int("attempt", attempt+1),
		slog.Duration("backoff", wait),
	)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finish settles the circuit breaker, span and metrics for a completed call.
func (c *Client) finish(
	ctx context.Context,
	method string,
	resp *http.Response,
	err error,
	span trace.Span,
	logger *slog.Logger,
	start time.Time,
) (*http.Response, error) {
	duration := time.Since(start)

	if err != nil {
		c.cb.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		result := "error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = "context_canceled"
		}

		c.recordMetrics(ctx, method, 0, duration, result)
		logger.Error("request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
		}

		return nil, err
	}

	c.cb.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.recordMetrics(ctx, method, resp.StatusCode, duration, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// requestLogger prefers the caller's logger, tagged with the downstream name.
// c.logger carries that tag already.
func (c *Client) requestLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContextOr(ctx, nil); logger != nil {
		return logger.With(slog.String("downstream", c.serviceName))
	}

	return c.logger
}

// Get performs a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.buildURL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// Post sends body with the given content type. The body is replayed on retry.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// PostJSON encodes payload as JSON and posts it.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	return c.Post(ctx, path, "application/json", body)
}

// injectHeaders propagates request, correlation and trace IDs.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// calculateBackoff returns initial*multiplier^attempt capped at the max
// interval, spread by the configured jitter factor in both directions.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(attempt))
	if limit := float64(c.retry.MaxInterval); limit > 0 && backoff > limit {
		backoff = limit
	}

	spread := rand.Float64()*2 - 1 //nolint:gosec // jitter only
	backoff += backoff * c.retry.JitterFactor * spread

	return time.Duration(backoff)
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func hasBody(req *http.Request) bool {
	return req.Body != nil && req.Body != http.NoBody
}

func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
