package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 16 << 10

// ErrorResponse is the error envelope downstream services answer with.
// Both the nested {"error":{...}} form and the flat {"code","message"} form are accepted,
// as is the {"errors":[{"message"}]} list some social APIs use.
type ErrorResponse struct {
	Error   ErrorDetail   `json:"error"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
	Detail  string        `json:"detail,omitempty"`
}

// ErrorDetail is one entry of an ErrorResponse.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetMessage returns the first non-empty message in the envelope.
func (e *ErrorResponse) GetMessage() string {
	switch {
	case e.Error.Message != "":
		return e.Error.Message
	case len(e.Errors) > 0 && e.Errors[0].Message != "":
		return e.Errors[0].Message
	case e.Message != "":
		return e.Message
	default:
		return e.Detail
	}
}

// ParseErrorResponse reads an error body. Returns nil if it holds nothing useful.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" && errResp.Error.Code == "" && errResp.Code == "" {
		return nil
	}

	return &errResp
}

// Target names what a failed call was about, for error messages.
type Target struct {
	// Operation is a short verb phrase such as "resolve title".
	Operation string

	// Entity and ID feed domain.NotFoundError on a 404.
	Entity string
	ID     string
}

// MapHTTPError turns a failed downstream call into a domain error.
//
//   - 404 becomes domain.ErrNotFound
//   - 409 becomes domain.ErrConflict
//   - 400 and 422 become domain.ErrValidation
//   - 401, 403, 429, 5xx, transport and circuit failures become domain.ErrUnavailable
//
// Context cancellation is returned unchanged so callers can tell it apart.
func MapHTTPError(resp *http.Response, clientErr error, service string, target Target) error {
	if clientErr != nil {
		return mapClientError(clientErr, service, target.Operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(service, "no response received")
	}

	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	message := fmt.Sprintf("%s failed with status %d", target.Operation, resp.StatusCode)
	if errResp := ParseErrorResponse(resp.Body); errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(target.Entity, target.ID)
	case status == http.StatusConflict:
		return domain.NewConflictError(service, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewUnavailableError(service, "credentials rejected: "+message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(service, "rate limit exceeded")
	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(service, message)
	default:
		return domain.NewValidationError("", message)
	}
}

func mapClientError(err error, service, operation string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", operation, err)
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, "retries exhausted during "+operation)
	case errors.Is(err, clients.ErrAuth):
		return domain.NewUnavailableError(service, fmt.Sprintf("%s: %v", operation, err))
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, err))
	}
}
