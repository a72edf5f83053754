package schema

import (
	"errors"
	"fmt"
)

// Error categories. Use errors.Is to classify a returned error.
var (
	// ErrConfiguration means the operation cannot run with what it was given, e.g. no reference data.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation means a record or an input value is malformed.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means nothing matched. Empty query windows do not use it.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a rejected record field.
type ValidationError struct {
	Date   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s for %s: %s", e.Field, e.Date, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError is a shorthand for building a *ValidationError.
func NewValidationError(date, field, reason string) error {
	return &ValidationError{Date: date, Field: field, Reason: reason}
}
