package domain

import "unicode"

// Width units assigned by EstimateWidth. One unit is roughly one capital W.
const (
	WidthWide      = 1.0
	WidthUpper     = 0.9
	WidthLower     = 0.65
	WidthUnweighed = 0.0
)

// Default layout budget for a card.
const (
	DefaultMaxWidth = 30
	DefaultMargin   = 8
	DefaultMaxLines = 7
)

// DisplayLine is one rendered row of quote text.
type DisplayLine string

// EstimateWidth approximates the rendered width of a single character.
// Letters are weighed by case; digits, punctuation and whitespace count as zero.
func EstimateWidth(r rune) float64 {
	switch {
	case r == 'W':
		return WidthWide
	case unicode.IsUpper(r):
		return WidthUpper
	case unicode.IsLower(r):
		return WidthLower
	default:
		return WidthUnweighed
	}
}

// LineWidth is the sum of EstimateWidth over s.
func LineWidth(s string) float64 {
	var w float64
	for _, r := range s {
		w += EstimateWidth(r)
	}

	return w
}

// LineBreaker splits text into display lines by greedy word wrapping.
type LineBreaker struct {
	// MaxWidth is the per-line budget in width units.
	MaxWidth float64

	// Margin is subtracted from MaxWidth to get the break threshold, so a
	// line ends at the first space after it reaches MaxWidth-Margin.
	Margin float64

	// MaxLines caps the output. Zero or less disables the cap.
	MaxLines int
}

// DefaultLineBreaker returns a breaker with the stock card budget.
func DefaultLineBreaker() LineBreaker {
	return LineBreaker{
		MaxWidth: DefaultMaxWidth,
		Margin:   DefaultMargin,
		MaxLines: DefaultMaxLines,
	}
}

// Threshold is the width at which the next space ends the current line.
func (b LineBreaker) Threshold() float64 {
	return b.MaxWidth - b.Margin
}

// Wrap splits text into at most MaxLines lines.
//
// Breaks only happen at spaces, so a word wider than the budget stays on one
// line. A line never starts with a space. The trailing line is always emitted,
// which means empty input yields a single empty line. Lines past MaxLines are
// dropped without notice.
func (b LineBreaker) Wrap(text string) []DisplayLine {
	threshold := b.Threshold()

	var (
		lines   []DisplayLine
		current []rune
		width   float64
	)

	for _, r := range text {
		if r == ' ' && width >= threshold {
			lines = append(lines, DisplayLine(current))
			current = current[:0:0]
			width = 0
		}

		if r == ' ' && len(current) == 0 {
			continue
		}

		current = append(current, r)
		width += EstimateWidth(r)
	}

	lines = append(lines, DisplayLine(current))

	if b.MaxLines > 0 && len(lines) > b.MaxLines {
		lines = lines[:b.MaxLines]
	}

	return lines
}
