package api

import "errors"

// Sentinel errors exposed by the gateway. Callers match them with errors.Is.
var (
	// ErrUnauthorized means the backend rejected the credential itself.
	// The gateway has already torn down the session when this is returned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the credential is valid but the caller lacks the
	// required role. The session is left intact.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means the backend rejected the request payload,
	// e.g. an unknown game username at login.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the backend could not be reached or did not
	// answer in time.
	ErrUnavailable = errors.New("server unavailable")
)
