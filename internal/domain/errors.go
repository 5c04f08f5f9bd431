package domain

import "errors"

// ErrLoginFailed is returned when the upstream login endpoint rejects the
// supplied credentials (non-2xx). The wrapped message, when the upstream
// provides one, is safe to surface to the sign-in form.
// Handlers should map this to HTTP 401.
var ErrLoginFailed = errors.New("login failed")

// ErrTokenExchange is returned when the short-lived bearer token exchange
// fails. The upstream detail is deliberately not surfaced.
// Handlers should map this to HTTP 502.
var ErrTokenExchange = errors.New("failed to get token")

// ErrHistoryFetch is returned when the tap-history fetch returns non-2xx.
// Handlers should map this to HTTP 502.
var ErrHistoryFetch = errors.New("failed to fetch tap history")

// ErrUnauthorized is returned when a request carries no valid session.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when the requested resource does not exist
// (e.g. an expired or unknown session ID).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation (e.g. a malformed
// date path segment or a missing credential field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
