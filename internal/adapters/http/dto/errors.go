// Package dto provides the request and response shapes of the card API.
package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	// Code is machine-readable, e.g. "TEMPLATE_MISSING".
	Code    string `json:"code"`
	Message string `json:"message"`

	// Details holds per-field messages for validation failures.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound             = "NOT_FOUND"
	ErrorCodeConflict             = "CONFLICT"
	ErrorCodeValidation           = "VALIDATION_ERROR"
	ErrorCodeBadRequest           = "BAD_REQUEST"
	ErrorCodeUnavailable          = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout              = "TIMEOUT"
	ErrorCodeInternal             = "INTERNAL_ERROR"
	ErrorCodeMetadataLookup       = "METADATA_LOOKUP_FAILED"
	ErrorCodeTemplateMissing      = "TEMPLATE_MISSING"
	ErrorCodeQuoteSourceMalformed = "QUOTE_SOURCE_MALFORMED"
)

// NewErrorResponse creates an error envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID sets the trace ID and returns the response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps an error code to its status.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeMetadataLookup:
		return http.StatusBadGateway
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError converts a pipeline error into a status and envelope.
// The card-specific kinds are checked first: a metadata lookup failure also
// matches the resolver's own cause, which may be a NotFound or Unavailable.
func MapDomainError(err error) (int, *ErrorResponse) {
	var code, message string

	switch {
	case err == nil:
		return http.StatusOK, nil
	case domain.IsMetadataLookup(err):
		code, message = ErrorCodeMetadataLookup, err.Error()
	case domain.IsMissingTemplate(err):
		code, message = ErrorCodeTemplateMissing, err.Error()
	case domain.IsMalformedQuoteSource(err):
		code, message = ErrorCodeQuoteSourceMalformed, err.Error()
	case domain.IsConflict(err):
		code, message = ErrorCodeConflict, err.Error()
	case domain.IsNotFound(err):
		code, message = ErrorCodeNotFound, err.Error()
	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp
	case domain.IsUnavailable(err):
		code, message = ErrorCodeUnavailable, err.Error()
	default:
		code, message = ErrorCodeInternal, "an internal error occurred"
	}

	return HTTPStatusFromCode(code), NewErrorResponse(code, message)
}

// GetTraceID returns the active span's trace ID, falling back to the
// "trace_id" key set by the telemetry middleware.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			return sc.TraceID().String()
		}
	}

	return c.GetString("trace_id")
}

// HandleError writes err as a JSON envelope. 5xx responses are logged with
// the full error.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// AbortWithCode aborts the chain with an envelope for code.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
