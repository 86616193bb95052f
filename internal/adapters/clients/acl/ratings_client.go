package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

const (
	bestMatchPath = "/v1/titles/best-match"
	ratingsPing   = "/healthz"
)

// RatingsClientConfig contains configuration for the ratings client.
type RatingsClientConfig struct {
	// Client's BaseURL points at the ratings lookup API.
	Client *clients.Client

	Logger *slog.Logger
}

// RatingsClient resolves a subject to its official title and age rating.
// Implements ports.MetadataResolver.
type RatingsClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewRatingsClient creates a ratings adapter.
// Panics if Client is nil.
func NewRatingsClient(cfg RatingsClientConfig) *RatingsClient {
	if cfg.Client == nil {
		panic("RatingsClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RatingsClient{
		BaseAdapter: NewBaseAdapter(cfg.Client),
		logger:      logger.With(slog.String("component", "acl.RatingsClient")),
	}
}

// titleMatch is the lookup API's best-match payload.
type titleMatch struct {
	Title     string `json:"title"`
	AgeRating string `json:"age_rating"`
	Year      int    `json:"year,omitempty"`
}

// Resolve asks the lookup API for the best match of subject.
// A 404 comes back as domain.ErrNotFound; every other failure as domain.ErrUnavailable.
func (c *RatingsClient) Resolve(ctx context.Context, subject string) (*domain.ResolvedMetadata, error) {
	logger := logging.FromContextOr(ctx, c.logger)
	logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", bestMatchPath),
		slog.String("subject", subject))

	body, err := c.Get(ctx, bestMatchPath, url.Values{"title": {subject}}, Target{
		Operation: "resolve title",
		Entity:    "title",
		ID:        subject,
	})
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponse[titleMatch](body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	meta, err := c.translate(ext)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), fmt.Sprintf("invalid best match for %q: %v", subject, err))
	}

	logger.DebugContext(ctx, "resolved title",
		slog.String("subject", subject),
		slog.String("title", meta.OfficialTitle),
		slog.String("rating", string(meta.Rating)))

	return meta, nil
}

func (c *RatingsClient) translate(ext *titleMatch) (*domain.ResolvedMetadata, error) {
	title := strings.TrimSpace(ext.Title)
	if err := ValidateRequired(title, "title"); err != nil {
		return nil, err
	}

	rating := strings.TrimSpace(ext.AgeRating)
	if err := ValidateRequired(rating, "age_rating"); err != nil {
		return nil, err
	}

	return &domain.ResolvedMetadata{
		OfficialTitle: title,
		Rating:        domain.RatingCategory(rating),
	}, nil
}

// Name implements ports.HealthChecker.
func (c *RatingsClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker.
func (c *RatingsClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, ratingsPing, nil, Target{Operation: "health check"})
	if err != nil {
		return err
	}

	return body.Close()
}
