package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/ports"
)

// CardService exposes card generation to the transport layer.
// It reloads the quote source on every run and refuses overlapping runs.
type CardService struct {
	source   ports.QuoteSource
	pipeline *Pipeline
	logger   *slog.Logger

	running sync.Mutex
}

// CardServiceConfig contains configuration for the card service.
type CardServiceConfig struct {
	Source   ports.QuoteSource
	Pipeline *Pipeline
	Logger   *slog.Logger
}

// NewCardService creates a card service. It panics if Source or Pipeline is nil.
func NewCardService(cfg CardServiceConfig) *CardService {
	if cfg.Source == nil {
		panic("app: CardServiceConfig.Source is required")
	}

	if cfg.Pipeline == nil {
		panic("app: CardServiceConfig.Pipeline is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CardService{
		source:   cfg.Source,
		pipeline: cfg.Pipeline,
		logger:   logger.With(slog.String("component", "app.CardService")),
	}
}

// Generate loads the quotes and runs the pipeline once.
// Returns domain.ErrConflict when another run is still in progress.
func (s *CardService) Generate(ctx context.Context) (*RunResult, error) {
	if !s.running.TryLock() {
		s.logger.WarnContext(ctx, "rejected overlapping card run")

		return nil, domain.NewConflictError("card run", "a run is already in progress")
	}
	defer s.running.Unlock()

	quotes, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quotes: %w", err)
	}

	s.logger.DebugContext(ctx, "quotes loaded", slog.Int("count", len(quotes)))

	return s.pipeline.Run(ctx, quotes)
}

// LayoutLine is one wrapped line with its estimated width.
type LayoutLine struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// Layout wraps text with the pipeline's line breaker without rendering it.
func (s *CardService) Layout(text string) []LayoutLine {
	lines := s.pipeline.Breaker().Wrap(text)

	out := make([]LayoutLine, len(lines))
	for i, line := range lines {
		out[i] = LayoutLine{Text: string(line), Width: domain.LineWidth(string(line))}
	}

	return out
}
