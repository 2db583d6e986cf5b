package common

import "strings"

// ValidationError collects field-level messages for malformed input.
// It matches ErrValidation via errors.Is.
type ValidationError struct {
	Fields []string
}

// ErrValidation is the sentinel matched by every *ValidationError.
var ErrValidation = &ValidationError{}

// NewValidationError builds a ValidationError from the given messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Fields: msgs}
}

// Add appends a message.
func (e *ValidationError) Add(msg string) {
	e.Fields = append(e.Fields, msg)
}

// Empty reports whether no messages were collected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns e when it carries messages and nil otherwise, so callers can
// write `return v.OrNil()` without returning a typed nil.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return "validation error: " + strings.Join(e.Fields, "; ")
}

// Is makes every *ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}
