// Package domain contains core business entities and rules.
package domain

import (
	"sort"
	"strings"
)

// QuoteEntry is one quotation keyed by the subject it is about.
type QuoteEntry struct {
	// Subject names the work the quote comes from. It is the lookup key for
	// the rating service and the stem of the output file name.
	Subject string

	// Body is the quotation text.
	Body string
}

// QuoteSet is the loaded quote mapping, ordered by subject.
type QuoteSet []QuoteEntry

// NewQuoteSet builds a QuoteSet from a subject to body mapping.
func NewQuoteSet(m map[string]string) QuoteSet {
	set := make(QuoteSet, 0, len(m))
	for subject, body := range m {
		set = append(set, QuoteEntry{Subject: subject, Body: body})
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Subject < set[j].Subject })

	return set
}

// RatingCategory is a content-rating label such as "PG" or "15".
type RatingCategory string

// TemplateKey is the lower-case form used to locate the background image.
func (r RatingCategory) TemplateKey() string {
	return strings.ToLower(strings.TrimSpace(string(r)))
}

// Label is the upper-case form shown in captions.
func (r RatingCategory) Label() string {
	return strings.ToUpper(strings.TrimSpace(string(r)))
}

// ResolvedMetadata is what the rating lookup returns for a subject.
type ResolvedMetadata struct {
	OfficialTitle string
	Rating        RatingCategory
}

// Caption renders the post text: the official title followed by the rating in parentheses.
func (m ResolvedMetadata) Caption() string {
	return m.OfficialTitle + " (" + m.Rating.Label() + ")"
}

// CompositionResult describes the image written by a compositor.
// The file is left on disk after publishing.
type CompositionResult struct {
	Path   string
	Width  int
	Height int
}

// OutputStem converts a subject into the file name stem used for its card.
// Distinct subjects can share a stem; the later card overwrites the earlier one.
func OutputStem(subject string) string {
	return strings.ToLower(strings.ReplaceAll(subject, " ", "_"))
}
