package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrUnavailable,
		ErrMissingTemplate,
		ErrMetadataLookup,
		ErrMalformedQuoteSource,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "title",
			id:          "Casablanca",
			expectedMsg: `title "Casablanca" not found`,
		},
		{
			name:        "with entity only",
			entity:      "quote",
			expectedMsg: "quote not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("pipeline run", "a run is already in progress")

	assert.Equal(t, "pipeline run conflict: a run is already in progress", err.Error())
	require.ErrorIs(t, err, ErrConflict)
	assert.True(t, IsConflict(err))
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "text",
			message:     "is required",
			expectedMsg: "validation failed for text: is required",
		},
		{
			name:        "without field",
			message:     "empty body",
			expectedMsg: "validation failed: empty body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUnavailableError(t *testing.T) {
	assert.Equal(t, `service "ratings" unavailable: circuit open`,
		NewUnavailableError("ratings", "circuit open").Error())
	assert.Equal(t, `service "social" unavailable`,
		NewUnavailableError("social", "").Error())
	assert.True(t, IsUnavailable(NewUnavailableError("social", "")))
}

func TestMissingTemplateError(t *testing.T) {
	err := NewMissingTemplateError(RatingCategory("PG"), "templates/pg.png")

	assert.Equal(t, `no template for rating "pg" at templates/pg.png`, err.Error())
	require.ErrorIs(t, err, ErrMissingTemplate)
	assert.True(t, IsMissingTemplate(fmt.Errorf("compose: %w", err)))

	var missing *MissingTemplateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, RatingCategory("PG"), missing.Category)
}

func TestMetadataLookupError(t *testing.T) {
	cause := NewNotFoundError("title", "Nope")

	err := NewMetadataLookupError("Nope", cause)

	assert.Equal(t, `metadata lookup for "Nope" failed: title "Nope" not found`, err.Error())
	require.ErrorIs(t, err, ErrMetadataLookup)
	require.ErrorIs(t, err, ErrNotFound, "cause should stay reachable")
	assert.True(t, IsMetadataLookup(err))
	assert.False(t, IsUnavailable(err))
}

func TestMetadataLookupError_NilCause(t *testing.T) {
	err := NewMetadataLookupError("Alien", nil)

	assert.Equal(t, `metadata lookup for "Alien" failed`, err.Error())
	require.ErrorIs(t, err, ErrMetadataLookup)
}

func TestMalformedQuoteSourceError(t *testing.T) {
	cause := errors.New("yaml: line 3: did not find expected key")

	err := NewMalformedQuoteSourceError("quotes.yml", "invalid yaml", cause)

	assert.Equal(t,
		"malformed quote source quotes.yml: invalid yaml: yaml: line 3: did not find expected key",
		err.Error())
	require.ErrorIs(t, err, ErrMalformedQuoteSource)
	require.ErrorIs(t, err, cause)

	noCause := NewMalformedQuoteSourceError("quotes.yml", "no quotes", nil)
	assert.Equal(t, "malformed quote source quotes.yml: no quotes", noCause.Error())
	assert.True(t, IsMalformedQuoteSource(noCause))
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with sentinel", ErrNotFound, IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrConflict, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsConflict with sentinel", ErrConflict, IsConflict, true},
		{"IsConflict with nil", nil, IsConflict, false},

		{"IsValidation with sentinel", ErrValidation, IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsMissingTemplate with wrapped", fmt.Errorf("x: %w", ErrMissingTemplate), IsMissingTemplate, true},
		{"IsMissingTemplate with lookup error", ErrMetadataLookup, IsMissingTemplate, false},

		{"IsMetadataLookup with sentinel", ErrMetadataLookup, IsMetadataLookup, true},
		{"IsMetadataLookup with nil", nil, IsMetadataLookup, false},

		{"IsMalformedQuoteSource with sentinel", ErrMalformedQuoteSource, IsMalformedQuoteSource, true},
		{"IsMalformedQuoteSource with other error", ErrValidation, IsMalformedQuoteSource, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}
