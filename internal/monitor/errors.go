package monitor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSource identifies which query produced an error.
type ErrorSource string

const (
	ErrorSourcePower   ErrorSource = "power"
	ErrorSourceBattery ErrorSource = "battery"
	ErrorSourceMemory  ErrorSource = "memory"
	ErrorSourceLoad    ErrorSource = "load"
)

var (
	// ErrNoBattery is returned when no battery supply is present.
	ErrNoBattery = errors.New("no battery found")
	// ErrNoAdapter is returned when no AC adapter supply is present.
	ErrNoAdapter = errors.New("no AC adapter found")
)

// ComponentError wraps an error with source information.
// It preserves the original error for inspection via errors.Is/errors.As.
type ComponentError struct {
	Source ErrorSource
	Err    error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *ComponentError) Unwrap() error {
	return e.Err
}

func newComponentError(source ErrorSource, err error) *ComponentError {
	return &ComponentError{Source: source, Err: err}
}

// UpdateError aggregates the query failures of a single Collect call.
type UpdateError struct {
	Errors []*ComponentError
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("collect error: %v", e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, ce := range e.Errors {
		msgs[i] = ce.Error()
	}
	return fmt.Sprintf("collect errors (%d): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors for multi-error support.
func (e *UpdateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ce := range e.Errors {
		errs[i] = ce
	}
	return errs
}

// HasSource returns true if any error originated from the given source.
func (e *UpdateError) HasSource(source ErrorSource) bool {
	for _, ce := range e.Errors {
		if ce.Source == source {
			return true
		}
	}
	return false
}

// AsUpdateError attempts to extract an UpdateError from an error.
// Returns nil if the error is not an UpdateError.
func AsUpdateError(err error) *UpdateError {
	var ue *UpdateError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}
