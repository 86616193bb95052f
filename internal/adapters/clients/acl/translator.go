package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// maxResponseBody caps decoded success payloads.
const maxResponseBody = 1 << 20

// BaseAdapter holds what every downstream adapter needs: the client and error mapping.
type BaseAdapter struct {
	client *clients.Client
}

// NewBaseAdapter wraps client.
func NewBaseAdapter(client *clients.Client) BaseAdapter {
	return BaseAdapter{client: client}
}

// ServiceName returns the name of the downstream service.
func (a *BaseAdapter) ServiceName() string {
	return a.client.ServiceName()
}

// Get performs a GET and returns the body of a successful response.
// The caller closes it. Failures come back as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path string, query url.Values, target Target) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path, query)

	return a.check(resp, err, target)
}

// PostJSON posts payload as JSON and returns the body of a successful response.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, payload any, target Target) (io.ReadCloser, error) {
	resp, err := a.client.PostJSON(ctx, path, payload)

	return a.check(resp, err, target)
}

// Post sends a raw body and returns the body of a successful response.
func (a *BaseAdapter) Post(ctx context.Context, path, contentType string, body []byte, target Target) (io.ReadCloser, error) {
	resp, err := a.client.Post(ctx, path, contentType, body)

	return a.check(resp, err, target)
}

func (a *BaseAdapter) check(resp *http.Response, err error, target Target) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.ServiceName(), target)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.ServiceName(), target)
	}

	return resp.Body, nil
}

// ErrEmptyBody is returned by DecodeResponse for a body without a JSON document.
var ErrEmptyBody = errors.New("response body is empty")

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, ErrEmptyBody
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBody)).Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}

		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// ValidateRequired checks that a field from a downstream payload is present.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}
