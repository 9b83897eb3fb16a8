package api

import (
	"errors"
	"fmt"
)

// Error kinds for backend interactions. Every failed call wraps exactly
// one of these so callers can route on errors.Is without parsing text.
var (
	// ErrUnauthorized means the token was missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means no record exists for a verified user.
	ErrNotFound = errors.New("not found")
	// ErrServer means a 5xx or a malformed response.
	ErrServer = errors.New("server error")
	// ErrNetwork means the request could not be completed. It is kept
	// distinct from ErrUnauthorized so a transient outage never triggers
	// a logout.
	ErrNetwork = errors.New("network error")
)

// ValidationError reports form input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a local input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
