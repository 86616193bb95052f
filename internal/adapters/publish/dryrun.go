// Package publish holds publishers that keep cards local.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

// Publication records one card handed to a DryRun publisher.
type Publication struct {
	Path     string    `json:"path"`
	Caption  string    `json:"caption"`
	Size     int64     `json:"size"`
	QueuedAt time.Time `json:"queued_at"`
}

// DryRun logs cards instead of posting them.
// Implements ports.Publisher.
type DryRun struct {
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	history []Publication
}

// NewDryRun creates a publisher that only logs.
func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}

	return &DryRun{
		logger: logger.With(slog.String("component", "publish.DryRun")),
		now:    time.Now,
	}
}

// Publish checks the card exists and logs it with its caption.
func (d *DryRun) Publish(ctx context.Context, filePath, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("checking card image: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("card image %s is a directory", filePath)
	}

	p := Publication{
		Path:     filePath,
		Caption:  caption,
		Size:     info.Size(),
		QueuedAt: d.now(),
	}

	d.mu.Lock()
	d.history = append(d.history, p)
	d.mu.Unlock()

	logging.FromContextOr(ctx, d.logger).InfoContext(ctx, "dry run, card not published",
		slog.String("path", p.Path),
		slog.String("caption", p.Caption),
		slog.Int64("bytes", p.Size))

	return nil
}

// History returns every publication so far, oldest first.
func (d *DryRun) History() []Publication {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Publication(nil), d.history...)
}
