package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a user or entry does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports an out-of-range or malformed input. Nothing is
// written when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// DetectionError wraps a failed achievement check. It is logged by callers,
// never returned from a write.
type DetectionError struct {
	Check string
	Err   error
}

func (e *DetectionError) Error() string { return "detect " + e.Check + ": " + e.Err.Error() }

func (e *DetectionError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
