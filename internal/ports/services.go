// Package ports defines interfaces for the card pipeline's collaborators.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrMissingTemplate, etc.)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// QuoteSource supplies the subject to quote mapping a run draws from.
type QuoteSource interface {
	// Load reads the full mapping.
	// Returns domain.ErrMalformedQuoteSource if it cannot be parsed.
	Load(ctx context.Context) (domain.QuoteSet, error)
}

// MetadataResolver looks up the official title and content rating for a subject.
//
// Implementations block until the lookup service answers or ctx expires.
// Any error is fatal to the run; callers do not fall back to a default title.
type MetadataResolver interface {
	// Resolve returns metadata for the subject.
	// Returns domain.ErrNotFound if the service has no match.
	Resolve(ctx context.Context, subject string) (*domain.ResolvedMetadata, error)
}

// Compositor renders display lines onto a rating template and writes the card.
type Compositor interface {
	// Compose writes exactly one image named after subject.
	// Returns domain.ErrMissingTemplate before writing anything when the
	// rating has no background.
	Compose(
		ctx context.Context,
		subject string,
		lines []domain.DisplayLine,
		rating domain.RatingCategory,
	) (*domain.CompositionResult, error)
}

// Publisher posts a finished card.
type Publisher interface {
	// Publish sends the image at filePath with the given caption.
	Publish(ctx context.Context, filePath, caption string) error
}
