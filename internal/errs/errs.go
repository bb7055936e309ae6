// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the record is absent, inactive, or the id is malformed.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates a role or ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a unique constraint violation (username taken).
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries every violated field, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Validation builds a ValidationError from field messages.
func Validation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
