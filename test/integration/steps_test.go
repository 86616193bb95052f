//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients/acl"
	apphttp "github.com/jsamuelsen/quote-card-bot/internal/adapters/http"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/publish"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/quotes"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/render"
	"github.com/jsamuelsen/quote-card-bot/internal/app"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
	"github.com/jsamuelsen/quote-card-bot/internal/ports"
)

const defaultQuotes = "Jaws: You're gonna need a bigger boat.\n"

type titleMatch struct {
	Title     string `json:"title"`
	AgeRating string `json:"age_rating"`
}

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	dir     string
	ratings *httptest.Server
	service *httptest.Server
	client  *http.Client
	dryRun  *publish.DryRun

	mu      sync.Mutex
	titles  map[string]titleMatch
	failing bool

	response     *http.Response
	responseBody []byte
}

func (tc *testContext) setUp() error {
	dir, err := os.MkdirTemp("", "quotecard-it-*")
	if err != nil {
		return err
	}

	tc.dir = dir
	tc.titles = map[string]titleMatch{}
	tc.failing = false
	tc.client = &http.Client{Timeout: 10 * time.Second}
	tc.response, tc.responseBody = nil, nil

	for _, sub := range []string{"templates", "out"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return err
		}
	}

	tc.ratings = httptest.NewServer(http.HandlerFunc(tc.serveRatings))

	return nil
}

func (tc *testContext) tearDown() {
	if tc.service != nil {
		tc.service.Close()
		tc.service = nil
	}

	if tc.ratings != nil {
		tc.ratings.Close()
	}

	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}

	os.RemoveAll(tc.dir)
}

func (tc *testContext) serveRatings(w http.ResponseWriter, r *http.Request) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if r.URL.Path == "/healthz" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if tc.failing {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
		return
	}

	match, ok := tc.titles[r.URL.Query().Get("title")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(match)
}

func (tc *testContext) quotePath() string {
	return filepath.Join(tc.dir, "quotes.yml")
}

func (tc *testContext) theQuoteFileContains(table *godog.Table) error {
	var b strings.Builder

	for _, row := range table.Rows[1:] {
		fmt.Fprintf(&b, "%q: %q\n", row.Cells[0].Value, row.Cells[1].Value)
	}

	return os.WriteFile(tc.quotePath(), []byte(b.String()), 0o600)
}

func (tc *testContext) aTemplateExists(rating string) error {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{A: 255}}, image.Point{}, draw.Src)

	f, err := os.Create(filepath.Join(tc.dir, "templates", domain.RatingCategory(rating).TemplateKey()+".png"))
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func (tc *testContext) theRatingsServiceKnows(subject, title, rating string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.titles[subject] = titleMatch{Title: title, AgeRating: rating}

	return nil
}

func (tc *testContext) theRatingsServiceIsFailing() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.failing = true

	return nil
}

// theCardServiceIsRunning wires the service the way main does, with a dry
// run publisher and the stub ratings server.
func (tc *testContext) theCardServiceIsRunning() error {
	if _, err := os.Stat(tc.quotePath()); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(tc.quotePath(), []byte(defaultQuotes), 0o600); err != nil {
			return err
		}
	}

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	clientCfg := config.ClientConfig{
		Timeout: 2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}

	ratingsHTTP, err := clients.New(clients.ConfigFor(config.ServiceEndpointConfig{
		BaseURL: tc.ratings.URL,
		Name:    "ratings-service",
	}, clientCfg, logger))
	if err != nil {
		return err
	}

	resolver := acl.NewRatingsClient(acl.RatingsClientConfig{Client: ratingsHTTP, Logger: logger})

	compositor, err := render.New(render.Config{
		TemplateDir:    filepath.Join(tc.dir, "templates"),
		TemplateFormat: "png",
		OutputDir:      filepath.Join(tc.dir, "out"),
		FontSize:       config.DefaultCardFontSize,
		OriginX:        config.DefaultCardOrigin,
		OriginY:        config.DefaultCardOrigin,
		LineHeight:     config.DefaultCardLineHeight,
		LineGap:        config.DefaultCardLineGap,
		TextColor:      "#FFFFFF",
	}, logger)
	if err != nil {
		return err
	}

	source := quotes.NewFileSource(tc.quotePath(), logger)
	tc.dryRun = publish.NewDryRun(logger)

	registry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{resolver, compositor, source} {
		if err := registry.Register(checker); err != nil {
			return err
		}
	}

	metrics := prometheus.NewRegistry()

	pipeline := app.NewPipeline(app.PipelineConfig{
		Resolver:   resolver,
		Compositor: compositor,
		Publisher:  tc.dryRun,
		Breaker:    domain.DefaultLineBreaker(),
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Metrics:    app.NewMetrics(metrics),
		Logger:     logger,
	})

	svc := app.NewCardService(app.CardServiceConfig{
		Source:   source,
		Pipeline: pipeline,
		Logger:   logger,
	})

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:      logger,
		ServiceName: "quote-card-bot",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")).
			WithGatherer(metrics),
		CardHandler: handlers.NewCardHandler(svc),
		Timeout:     5 * time.Second,
	})

	tc.service = httptest.NewServer(engine)

	return nil
}

func (tc *testContext) do(method, path string, body []byte) error {
	if tc.service == nil {
		return errors.New("card service is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, tc.service.URL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if tc.response != nil {
		tc.response.Body.Close()
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *testContext) iPOST(path string) error {
	return tc.do(http.MethodPost, path, nil)
}

func (tc *testContext) iPOSTWithBody(path string, body *godog.DocString) error {
	return tc.do(http.MethodPost, path, []byte(body.Content))
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theJSONFieldShouldBe(field, expected string) error {
	var doc map[string]any
	if err := json.Unmarshal(tc.responseBody, &doc); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if got := fmt.Sprint(doc[field]); got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", field, expected, got)
	}

	return nil
}

func (tc *testContext) aCardImageShouldExistFor(subject string) error {
	path := filepath.Join(tc.dir, "out", domain.OutputStem(subject)+".png")

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := png.DecodeConfig(f); err != nil {
		return fmt.Errorf("card %s is not a png: %w", path, err)
	}

	return nil
}

func (tc *testContext) theDryRunPublisherShouldHavePublished(n int) error {
	if got := len(tc.dryRun.History()); got != n {
		return fmt.Errorf("expected %d publications, got %d", n, got)
	}

	return nil
}
