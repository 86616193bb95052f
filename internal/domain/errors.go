// Package domain contains business logic types and errors.
// Domain errors represent card pipeline failures, NOT HTTP errors.
// Adapters map them to status codes or exit codes.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict, such as a run already in flight.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates input failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrMissingTemplate indicates no background template exists for a rating.
	ErrMissingTemplate = errors.New("missing template")

	// ErrMetadataLookup indicates the rating lookup for a subject failed.
	ErrMetadataLookup = errors.New("metadata lookup failed")

	// ErrMalformedQuoteSource indicates the quote mapping could not be parsed.
	ErrMalformedQuoteSource = errors.New("malformed quote source")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// MissingTemplateError reports a rating with no background image on disk.
type MissingTemplateError struct {
	Category RatingCategory
	Path     string
}

// Error implements the error interface.
func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("no template for rating %q at %s", e.Category.TemplateKey(), e.Path)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MissingTemplateError) Unwrap() error {
	return ErrMissingTemplate
}

// NewMissingTemplateError creates a missing template error.
func NewMissingTemplateError(category RatingCategory, path string) error {
	return &MissingTemplateError{Category: category, Path: path}
}

// MetadataLookupError wraps a resolver failure for a subject.
// Both ErrMetadataLookup and the underlying cause match errors.Is.
type MetadataLookupError struct {
	Subject string
	Cause   error
}

// Error implements the error interface.
func (e *MetadataLookupError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("metadata lookup for %q failed", e.Subject)
	}

	return fmt.Sprintf("metadata lookup for %q failed: %v", e.Subject, e.Cause)
}

// Unwrap returns the sentinel and the cause.
func (e *MetadataLookupError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMetadataLookup}
	}

	return []error{ErrMetadataLookup, e.Cause}
}

// NewMetadataLookupError creates a metadata lookup error.
func NewMetadataLookupError(subject string, cause error) error {
	return &MetadataLookupError{Subject: subject, Cause: cause}
}

// MalformedQuoteSourceError reports a quote mapping that could not be loaded.
type MalformedQuoteSourceError struct {
	Source string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *MalformedQuoteSourceError) Error() string {
	msg := fmt.Sprintf("malformed quote source %s: %s", e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the sentinel and the cause.
func (e *MalformedQuoteSourceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedQuoteSource}
	}

	return []error{ErrMalformedQuoteSource, e.Cause}
}

// NewMalformedQuoteSourceError creates a malformed quote source error.
func NewMalformedQuoteSourceError(source, reason string, cause error) error {
	return &MalformedQuoteSourceError{Source: source, Reason: reason, Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsMissingTemplate checks if an error is a missing template error.
func IsMissingTemplate(err error) bool {
	return errors.Is(err, ErrMissingTemplate)
}

// IsMetadataLookup checks if an error is a metadata lookup error.
func IsMetadataLookup(err error) bool {
	return errors.Is(err, ErrMetadataLookup)
}

// IsMalformedQuoteSource checks if an error is a malformed quote source error.
func IsMalformedQuoteSource(err error) bool {
	return errors.Is(err, ErrMalformedQuoteSource)
}
