// Package common defines shared constants and sentinel errors used across
// the student portal services. Callers should use errors.Is to match the
// sentinel values and errors.As for ValidationError.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorDuplicateUser = errors.New("user already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential errors. ErrorInvalidCredentials covers both an unknown
	// username and a wrong password so callers cannot tell the two apart.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorWrongOldPassword   = errors.New("old password is incorrect")

	// Perimeter errors.
	ErrorRateLimited  = errors.New("rate limited")
	ErrorOriginDenied = errors.New("origin denied")

	// Token lifecycle errors. The HTTP boundary collapses all three to a
	// single 401; the distinction only feeds internal logs.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// ValidationError reports malformed or missing input. Reason is safe to
// return to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with the given client-facing
// reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
