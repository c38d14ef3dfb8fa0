package model

import "fmt"

// ErrorKind classifies a field-level failure so callers and tests can
// match on kind instead of message wording.
type ErrorKind string

const (
	ErrEmptyField    ErrorKind = "empty_field"
	ErrInvalidFormat ErrorKind = "invalid_format"
	ErrOutOfRange    ErrorKind = "out_of_range"
	ErrUnknownValue  ErrorKind = "unknown_value"
	ErrInvalidValue  ErrorKind = "invalid_value"

	// ErrDuplicateDiscarded is informational: the row lost a dedupe
	// decision. It never invalidates the surviving row.
	ErrDuplicateDiscarded ErrorKind = "duplicate_discarded"
)

// FieldError is a structured, per-field validation failure. Message is
// specific enough for a human to fix the source row without reading code.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Value   string    `json:"value,omitempty"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
