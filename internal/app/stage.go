package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/jsamuelsen/quote-card-bot/internal/app"

// A card run moves through four stages in a fixed order:
//
//	SELECT  - draw one quote from the loaded set
//	RESOLVE - look up the official title and rating for its subject
//	COMPOSE - wrap the body and render it onto the rating template
//	PUBLISH - post the card with its caption
//
// A failure at any stage aborts the run. Nothing is retried and nothing is
// published after a failure, although a composed file may stay on disk.

// Stage names a step of the card pipeline.
type Stage string

const (
	StageSelect  Stage = "select"
	StageResolve Stage = "resolve"
	StageCompose Stage = "compose"
	StagePublish Stage = "publish"
)

// StageError wraps a failure with the stage where it occurred.
type StageError struct {
	Stage Stage
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// GetStage extracts the failing stage from a pipeline error.
func GetStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}

	return "", false
}

// runStage executes fn in its own span with stage-scoped logging and wraps
// its error.
func runStage[T any](ctx context.Context, logger *slog.Logger, stage Stage, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "card."+string(stage))
	defer span.End()

	span.SetAttributes(attribute.String("card.stage", string(stage)))

	logger = logger.With(slog.String("stage", string(stage)))
	logger.DebugContext(ctx, "stage started")

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "stage failed", slog.Any("error", err))

		var zero T

		return zero, &StageError{Stage: stage, Cause: err}
	}

	logger.DebugContext(ctx, "stage completed")

	return out, nil
}
