package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a document does not exist.
var ErrNotFound = errors.New("document not found")

// InvalidInputError reports a structurally invalid input document, such as a
// scalar where an object is required. It is a job failure, not a low-confidence result.
type InvalidInputError struct {
	Document string
	Field    string
	Reason   string
	Cause    error
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Document)
	if e.Field != "" {
		msg += fmt.Sprintf(" at %s", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}
