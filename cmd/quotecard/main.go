// Package main runs the quote card bot, either as an HTTP service that
// generates a card per request or, with -once, as a single run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/publish"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/quotes"
	"github.com/jsamuelsen/quote-card-bot/internal/adapters/render"
	"github.com/jsamuelsen/quote-card-bot/internal/app"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-card-bot/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Exit codes for -once.
const (
	exitOK = iota
	exitError
	exitConfig
	exitMetadataLookup
	exitMissingTemplate
	exitMalformedQuotes
)

func main() {
	var (
		once      = flag.Bool("once", false, "generate and publish one card, then exit")
		profile   = flag.String("profile", envOr("APP_PROFILE", "local"), "config profile loaded from <config-dir>/<profile>.yaml")
		configDir = flag.String("config-dir", "configs", "directory holding base.yaml and profile files")
	)

	flag.Parse()

	os.Exit(run(*once, *configDir, *profile))
}

func run(once bool, configDir, profile string) int {
	cfg, err := config.LoadFrom(configDir, profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return exitConfig
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid config: %v\n", err)
		return exitConfig
	}

	logger := logging.New(loggingConfig(cfg))
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg))
	if err != nil {
		logger.Error("initializing telemetry", slog.Any("error", err))
		return exitError
	}

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	svc, registry, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("wiring card service", slog.Any("error", err))
		return exitConfig
	}

	if once {
		return runOnce(ctx, svc, logger)
	}

	if err := serve(ctx, cfg, logger, svc, registry); err != nil {
		logger.Error("service stopped", slog.Any("error", err))
		return exitError
	}

	return exitOK
}

func loggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}

// build wires the pipeline adapters and registers their health checks.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.CardService, *ports.DefaultHealthRegistry, error) {
	registry := ports.NewHealthRegistry()

	ratingsHTTP, err := clients.New(clients.ConfigFor(cfg.Services.Ratings, cfg.Client, logger))
	if err != nil {
		return nil, nil, fmt.Errorf("creating ratings client: %w", err)
	}

	resolver := acl.NewRatingsClient(acl.RatingsClientConfig{Client: ratingsHTTP, Logger: logger})

	compositor, err := render.New(render.Config{
		TemplateDir:    cfg.Card.TemplateDir,
		TemplateFormat: cfg.Card.TemplateFormat,
		OutputDir:      cfg.Card.OutputDir,
		FontPath:       cfg.Card.FontPath,
		FontSize:       cfg.Card.FontSize,
		OriginX:        cfg.Card.OriginX,
		OriginY:        cfg.Card.OriginY,
		LineHeight:     cfg.Card.LineHeight,
		LineGap:        cfg.Card.LineGap,
		TextColor:      cfg.Card.TextColor,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating compositor: %w", err)
	}

	publisher, err := newPublisher(ctx, cfg, logger, registry)
	if err != nil {
		return nil, nil, err
	}

	source := quotes.NewFileSource(cfg.Quotes.Path, logger)

	for _, checker := range []ports.HealthChecker{resolver, compositor, source} {
		if err := registry.Register(checker); err != nil {
			return nil, nil, fmt.Errorf("registering health check: %w", err)
		}
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		Resolver:   resolver,
		Compositor: compositor,
		Publisher:  publisher,
		Breaker: domain.LineBreaker{
			MaxWidth: cfg.Layout.MaxWidth,
			Margin:   cfg.Layout.Margin,
			MaxLines: cfg.Layout.MaxLines,
		},
		Rand:    newRand(cfg.Pipeline.Seed),
		Metrics: app.NewMetrics(prometheus.DefaultRegisterer),
		Logger:  logger,
	})

	svc := app.NewCardService(app.CardServiceConfig{
		Source:   source,
		Pipeline: pipeline,
		Logger:   logger,
	})

	return svc, registry, nil
}

func newPublisher(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	registry *ports.DefaultHealthRegistry,
) (ports.Publisher, error) {
	if cfg.Publisher.Mode != config.PublisherModeSocial {
		logger.Info("publisher in dry run mode, cards stay local")
		return publish.NewDryRun(logger), nil
	}

	socialCfg := clients.ConfigFor(cfg.Services.Social, cfg.Client, logger)
	socialCfg.Auth = acl.TokenAuth(acl.TokenSource(ctx, cfg.Publisher))

	socialHTTP, err := clients.New(socialCfg)
	if err != nil {
		return nil, fmt.Errorf("creating social client: %w", err)
	}

	err = registry.Register(ports.CheckerFunc{
		CheckName: socialHTTP.ServiceName(),
		Fn: func(context.Context) error {
			if state := socialHTTP.CircuitState(); state == clients.StateOpen {
				return fmt.Errorf("circuit %s", state)
			}

			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("registering health check: %w", err)
	}

	return acl.NewSocialClient(acl.SocialClientConfig{Client: socialHTTP, Logger: logger}), nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed>>1))
}

func runOnce(ctx context.Context, svc *app.CardService, logger *slog.Logger) int {
	result, err := svc.Generate(ctx)
	if err != nil {
		logger.Error("card run failed", slog.Any("error", err))
		return exitCode(err)
	}

	logger.Info("card run complete",
		slog.String("run_id", result.RunID),
		slog.String("caption", result.Caption),
		slog.String("path", result.Path),
	)

	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.IsMetadataLookup(err):
		return exitMetadataLookup
	case domain.IsMissingTemplate(err):
		return exitMissingTemplate
	case domain.IsMalformedQuoteSource(err):
		return exitMalformedQuotes
	default:
		return exitError
	}
}

func serve(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	svc *app.CardService,
	registry ports.HealthRegistry,
) error {
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		CardHandler:   handlers.NewCardHandler(svc),
		Timeout:       cfg.Server.RequestTimeout,
	})

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("publisher", cfg.Publisher.Mode),
	)

	serverErr := server.Start()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serverErr; err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
