// Package app contains the card pipeline and the use cases built on it.
// It coordinates domain logic and adapters through ports and holds no
// HTTP or file format specifics.
package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
	"github.com/jsamuelsen/quote-card-bot/internal/ports"
)

var errNoMetadata = errors.New("resolver returned no metadata")

// RunResult summarizes a successful pipeline run.
type RunResult struct {
	RunID         string               `json:"run_id"`
	Subject       string               `json:"subject"`
	OfficialTitle string               `json:"official_title"`
	Rating        string               `json:"rating"`
	Caption       string               `json:"caption"`
	Path          string               `json:"path"`
	Lines         []domain.DisplayLine `json:"lines"`
}

// Pipeline runs select, resolve, compose and publish for one card.
type Pipeline struct {
	resolver   ports.MetadataResolver
	compositor ports.Compositor
	publisher  ports.Publisher
	breaker    domain.LineBreaker
	rng        *rand.Rand
	metrics    *Metrics
	logger     *slog.Logger
}

// PipelineConfig contains the pipeline's collaborators.
type PipelineConfig struct {
	Resolver   ports.MetadataResolver
	Compositor ports.Compositor
	Publisher  ports.Publisher

	// Breaker wraps quote bodies. The zero value selects DefaultLineBreaker.
	Breaker domain.LineBreaker

	// Rand drives quote selection. Nil seeds a generator from the clock.
	Rand *rand.Rand

	// Metrics is optional.
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewPipeline creates a pipeline. It panics if a collaborator is missing.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Resolver == nil {
		panic("app: PipelineConfig.Resolver is required")
	}

	if cfg.Compositor == nil {
		panic("app: PipelineConfig.Compositor is required")
	}

	if cfg.Publisher == nil {
		panic("app: PipelineConfig.Publisher is required")
	}

	breaker := cfg.Breaker
	if breaker == (domain.LineBreaker{}) {
		breaker = domain.DefaultLineBreaker()
	}

	rng := cfg.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		resolver:   cfg.Resolver,
		compositor: cfg.Compositor,
		publisher:  cfg.Publisher,
		breaker:    breaker,
		rng:        rng,
		metrics:    cfg.Metrics,
		logger:     logger.With(slog.String("component", "app.Pipeline")),
	}
}

// Breaker returns the line breaker used for card bodies.
func (p *Pipeline) Breaker() domain.LineBreaker {
	return p.breaker
}

// Run performs exactly one pass over the pipeline.
//
// Errors are *StageError values wrapping domain errors: resolver failures
// surface as domain.ErrMetadataLookup and a missing background as
// domain.ErrMissingTemplate. Publish is never attempted after a failure.
// Run is not safe for concurrent use because the random source is shared.
func (p *Pipeline) Run(ctx context.Context, quotes domain.QuoteSet) (*RunResult, error) {
	runID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "card.run",
		trace.WithAttributes(attribute.String("card.run_id", runID)))
	defer span.End()

	logger := logging.FromContextOr(ctx, p.logger).With(slog.String("run_id", runID))
	ctx = logging.WithContext(ctx, logger)

	start := time.Now()

	result, err := p.run(ctx, logger, quotes)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		stage, _ := GetStage(err)
		p.metrics.observeFailure(elapsed, stage)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "card run aborted", slog.Any("error", err))

		return nil, err
	}

	result.RunID = runID
	p.metrics.observeSuccess(elapsed, len(result.Lines))

	logger.InfoContext(ctx, "card published",
		slog.String("subject", result.Subject),
		slog.String("caption", result.Caption),
		slog.String("path", result.Path),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, quotes domain.QuoteSet) (*RunResult, error) {
	entry, err := runStage(ctx, logger, StageSelect, func(context.Context) (domain.QuoteEntry, error) {
		return SelectQuote(quotes, p.rng)
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("subject", entry.Subject))

	meta, err := runStage(ctx, logger, StageResolve, func(ctx context.Context) (*domain.ResolvedMetadata, error) {
		m, err := p.resolver.Resolve(ctx, entry.Subject)
		if err != nil {
			return nil, domain.NewMetadataLookupError(entry.Subject, err)
		}

		if m == nil {
			return nil, domain.NewMetadataLookupError(entry.Subject, errNoMetadata)
		}

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	rating := domain.RatingCategory(meta.Rating.TemplateKey())
	lines := p.breaker.Wrap(entry.Body)

	composed, err := runStage(ctx, logger, StageCompose, func(ctx context.Context) (*domain.CompositionResult, error) {
		return p.compositor.Compose(ctx, entry.Subject, lines, rating)
	})
	if err != nil {
		return nil, err
	}

	caption := meta.Caption()

	_, err = runStage(ctx, logger, StagePublish, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.publisher.Publish(ctx, composed.Path, caption)
	})
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Subject:       entry.Subject,
		OfficialTitle: meta.OfficialTitle,
		Rating:        rating.Label(),
		Caption:       caption,
		Path:          composed.Path,
		Lines:         lines,
	}, nil
}
