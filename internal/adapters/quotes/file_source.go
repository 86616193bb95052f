// Package quotes loads the subject to quote mapping from disk.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// FileSource reads a YAML document whose top level maps subjects to quote bodies:
//
//	Casablanca: Here's looking at you, kid.
//	Jaws: You're gonna need a bigger boat.
//
// The file is read on every Load so edits apply to the next run.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a quote source for the YAML file at path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileSource{
		path:   path,
		logger: logger.With(slog.String("component", "quotes.FileSource")),
	}
}

// Load parses the file into a QuoteSet.
// Every failure, including a missing file, is a domain.ErrMalformedQuoteSource.
func (s *FileSource) Load(ctx context.Context) (domain.QuoteSet, error) {
	raw, err := file.Provider(s.path).ReadBytes()
	if err != nil {
		return nil, domain.NewMalformedQuoteSourceError(s.path, "cannot read file", err)
	}

	set, err := Parse(s.path, raw)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "loaded quotes", slog.Int("count", len(set)))

	return set, nil
}

// Parse decodes a YAML quote mapping. source names the input in errors.
// Keys are used verbatim, so dotted subjects such as "Mr. Smith" survive.
func Parse(source string, raw []byte) (domain.QuoteSet, error) {
	doc, err := yaml.Parser().Unmarshal(raw)
	if err != nil {
		return nil, domain.NewMalformedQuoteSourceError(source, "invalid yaml", err)
	}

	if len(doc) == 0 {
		return nil, domain.NewMalformedQuoteSourceError(source, "no quotes defined", nil)
	}

	m := make(map[string]string, len(doc))

	for subject, value := range doc {
		body, ok := value.(string)
		if !ok {
			return nil, domain.NewMalformedQuoteSourceError(source,
				fmt.Sprintf("quote for %q is %T, want string", subject, value), nil)
		}

		if strings.TrimSpace(subject) == "" {
			return nil, domain.NewMalformedQuoteSourceError(source, "empty subject", nil)
		}

		m[subject] = body
	}

	return domain.NewQuoteSet(m), nil
}

// Name implements ports.HealthChecker.
func (s *FileSource) Name() string {
	return "quotes"
}

// Check implements ports.HealthChecker. It reports whether the file exists.
func (s *FileSource) Check(_ context.Context) error {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("quote file %s does not exist", s.path)
	}

	if err != nil {
		return fmt.Errorf("stat quote file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("quote file %s is a directory", s.path)
	}

	return nil
}
