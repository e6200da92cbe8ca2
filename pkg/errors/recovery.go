// Package errors provides comprehensive error handling utilities.
//
// This file contains panic recovery utilities that keep Fit and Predict from
// crashing the caller: unexpected panics become structured errors carrying the
// recovered value and a stack trace.

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is used with defer to convert a panic into an error assigned to *err.
// A recovered panic is marked as ErrComputation because it always means an
// internal invariant was broken.
//
// Usage:
//
//	func (m *Model) Fit(ds *dataset.Dataset) (err error) {
//	    defer errors.Recover(&err, "Model.Fit")
//	    ...
//	}
//
// If the function already returned an error, that error is kept as the cause and
// the panic is attached as a secondary error.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			wrapped := errors.Wrapf(*err, "panic in %s: %v", operation, r)
			*err = errors.Mark(errors.WithSecondaryError(wrapped, panicErr), ErrComputation)
			return
		}
		*err = errors.Mark(panicErr, ErrComputation)
	}
}

// SafeExecute executes fn and converts any panic into an error.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
