package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a caller error such as a missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced route or resource that does not exist.
	ErrNotFound = errors.New("not found")
)

// UpstreamError wraps a failure of the data-access layer. It is always
// surfaced to the caller and never retried here.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %q: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an *UpstreamError unless it is nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
