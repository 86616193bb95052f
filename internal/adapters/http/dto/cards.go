package dto

import (
	"github.com/jsamuelsen/quote-card-bot/internal/app"
)

// LayoutRequest is the body of POST /api/v1/layout.
type LayoutRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}

// LayoutResponse lists the wrapped lines of a preview.
type LayoutResponse struct {
	Lines []app.LayoutLine `json:"lines"`
	Count int              `json:"count"`
}

// CardResponse describes a published card.
type CardResponse struct {
	RunID         string   `json:"runId"`
	Subject       string   `json:"subject"`
	OfficialTitle string   `json:"officialTitle"`
	Rating        string   `json:"rating"`
	Caption       string   `json:"caption"`
	Path          string   `json:"path"`
	Lines         []string `json:"lines"`
}

// NewCardResponse converts a pipeline result.
func NewCardResponse(r *app.RunResult) *CardResponse {
	lines := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = string(l)
	}

	return &CardResponse{
		RunID:         r.RunID,
		Subject:       r.Subject,
		OfficialTitle: r.OfficialTitle,
		Rating:        r.Rating,
		Caption:       r.Caption,
		Path:          r.Path,
		Lines:         lines,
	}
}

// NewLayoutResponse wraps preview lines.
func NewLayoutResponse(lines []app.LayoutLine) *LayoutResponse {
	return &LayoutResponse{Lines: lines, Count: len(lines)}
}
