package sketchgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned when a query is issued before Fit.
	ErrNotFitted = errors.New("index has not been fitted")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyDataset is returned when Fit is called without vectors.
	ErrEmptyDataset = errors.New("dataset must not be empty")

	// ErrMethodOverride is returned when a query supplies a sketch method
	// even though one was already fixed at construction. The construction
	// choice is authoritative; the override is rejected rather than
	// silently ignored.
	ErrMethodOverride = errors.New("sketch method was fixed at construction and cannot be overridden per query")
)

// ErrInvalidParameter indicates an out-of-range or inconsistent
// configuration parameter. The message names the offending parameter.
type ErrInvalidParameter struct {
	Name   string // Parameter name
	Reason string // Why the value was rejected
}

// Error returns the error message for an invalid parameter.
func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}

// ErrUnknownMethod indicates an unrecognized sketch method name.
type ErrUnknownMethod struct {
	Method string // The rejected method name
}

// Error returns the error message for an unknown method.
func (e *ErrUnknownMethod) Error() string {
	return fmt.Sprintf("unknown sketch method %q", e.Method)
}

// ErrDimensionMismatch indicates a query/dataset dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
