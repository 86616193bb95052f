// Package acl is the anti-corruption layer between the card pipeline and the
// HTTP services it depends on.
//
// Downstream payloads are decoded into unexported DTOs, checked, and only then
// turned into domain types. Nothing outside this package sees a downstream
// field name or status code.
//
// # Adapters
//
//   - [RatingsClient] implements ports.MetadataResolver against the title
//     lookup API (GET /v1/titles/best-match?title=...).
//   - [SocialClient] implements ports.Publisher: a multipart media upload
//     followed by a post that references the returned media id. Requests are
//     authorized through an OAuth2 token source ([TokenSource], [TokenAuth]).
//
// Both embed [BaseAdapter], which sends through a clients.Client and maps
// failures with [MapHTTPError].
//
// # Error mapping
//
//   - 404 becomes [domain.ErrNotFound]
//   - 409 becomes [domain.ErrConflict]
//   - 400 and 422 become [domain.ErrValidation]
//   - 401, 403, 429 and 5xx become [domain.ErrUnavailable]
//   - circuit, retry, auth and transport failures become [domain.ErrUnavailable]
//
// Context cancellation passes through unchanged.
package acl
