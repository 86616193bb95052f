// Package render draws quote cards with github.com/tdewolff/canvas.
//
// Units: the canvas is sized in millimetres and rasterized at one dot per
// millimetre, so every configured pixel offset maps 1:1 onto a canvas unit.
// Font sizes are converted to points at the boundary.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // jpeg templates
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// mmPerPt converts font points to canvas millimetres.
const mmPerPt = 25.4 / 72.0

// outputExtension is the extension of every composed card.
const outputExtension = ".png"

// Config holds the fixed card layout.
type Config struct {
	TemplateDir    string
	TemplateFormat string
	OutputDir      string

	// FontPath is a TTF or OTF file. Empty selects Go Regular.
	FontPath string

	FontSize   float64
	OriginX    float64
	OriginY    float64
	LineHeight float64
	LineGap    float64
	TextColor  string
}

// CanvasCompositor implements ports.Compositor.
type CanvasCompositor struct {
	cfg    Config
	family *canvas.FontFamily
	color  color.RGBA
	logger *slog.Logger
}

// New loads the font and returns a compositor.
func New(cfg Config, logger *slog.Logger) (*CanvasCompositor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.TemplateFormat == "" {
		cfg.TemplateFormat = "png"
	}

	family, err := loadFamily(cfg.FontPath)
	if err != nil {
		return nil, err
	}

	return &CanvasCompositor{
		cfg:    cfg,
		family: family,
		color:  canvas.Hex(cfg.TextColor),
		logger: logger.With(slog.String("component", "render.CanvasCompositor")),
	}, nil
}

func loadFamily(path string) (*canvas.FontFamily, error) {
	data := goregular.TTF
	name := "go-regular"

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading font %s: %w", path, err)
		}

		data = b
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", name, err)
	}

	return family, nil
}

// TemplatePath is where the background for rating is expected.
func (c *CanvasCompositor) TemplatePath(rating domain.RatingCategory) string {
	return filepath.Join(c.cfg.TemplateDir, rating.TemplateKey()+"."+c.cfg.TemplateFormat)
}

// OutputPath is where the card for subject is written.
func (c *CanvasCompositor) OutputPath(subject string) string {
	return filepath.Join(c.cfg.OutputDir, domain.OutputStem(subject)+outputExtension)
}

// Compose renders lines onto the rating's template and writes the card.
//
// Lines are drawn left aligned from the configured origin, one step of
// LineHeight+LineGap apart. Lines past the bottom edge are drawn off canvas
// and lost. An existing card with the same output name is replaced.
func (c *CanvasCompositor) Compose(
	ctx context.Context,
	subject string,
	lines []domain.DisplayLine,
	rating domain.RatingCategory,
) (*domain.CompositionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	templatePath, err := c.locateTemplate(rating)
	if err != nil {
		return nil, err
	}

	background, err := decodeImage(templatePath)
	if err != nil {
		return nil, err
	}

	img := c.draw(background, lines)

	outPath := c.OutputPath(subject)
	if err := writePNG(outPath, img); err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	c.logger.DebugContext(ctx, "card composed",
		slog.String("template", templatePath),
		slog.String("path", outPath),
		slog.Int("lines", len(lines)),
	)

	return &domain.CompositionResult{Path: outPath, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// locateTemplate matches the file name exactly, independent of how the
// filesystem treats case.
func (c *CanvasCompositor) locateTemplate(rating domain.RatingCategory) (string, error) {
	path := c.TemplatePath(rating)
	want := filepath.Base(path)

	entries, err := os.ReadDir(c.cfg.TemplateDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading template directory: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() && e.Name() == want {
			return path, nil
		}
	}

	return "", domain.NewMissingTemplateError(rating, path)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding template %s: %w", path, err)
	}

	return img, nil
}

func (c *CanvasCompositor) draw(background image.Image, lines []domain.DisplayLine) image.Image {
	size := background.Bounds().Size()
	width, height := float64(size.X), float64(size.Y)

	cv := canvas.New(width, height)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.DrawImage(0, 0, background, canvas.DPMM(1))

	face := c.family.Face(c.cfg.FontSize/mmPerPt, c.color, canvas.FontRegular, canvas.FontNormal)
	ascent := face.Metrics().Ascent
	step := c.cfg.LineHeight + c.cfg.LineGap

	y := c.cfg.OriginY
	for _, line := range lines {
		ctx.DrawText(c.cfg.OriginX, y+ascent, canvas.NewTextLine(face, string(line), canvas.Left))
		y += step
	}

	return rasterizer.Draw(cv, canvas.DPMM(1), canvas.DefaultColorSpace)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()

		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return f.Close()
}

// Name implements ports.HealthChecker.
func (c *CanvasCompositor) Name() string {
	return "templates"
}

// Check implements ports.HealthChecker. It fails when the template
// directory holds no file with the configured format.
func (c *CanvasCompositor) Check(_ context.Context) error {
	matches, err := filepath.Glob(filepath.Join(c.cfg.TemplateDir, "*."+c.cfg.TemplateFormat))
	if err != nil {
		return fmt.Errorf("listing templates: %w", err)
	}

	if len(matches) == 0 {
		return fmt.Errorf("no %s templates in %s", c.cfg.TemplateFormat, c.cfg.TemplateDir)
	}

	return nil
}
