package dispatch

import (
	"errors"
	"fmt"
)

// FailureKind categorizes per-task failures recorded in an Outcome.
type FailureKind string

const (
	// KindMethodNotFound indicates a symbolic target with no registry match.
	KindMethodNotFound FailureKind = "METHOD_NOT_FOUND"

	// KindInvalidArguments indicates the validator rejected the arguments.
	// The target callable was never invoked.
	KindInvalidArguments FailureKind = "INVALID_ARGUMENTS"

	// KindExecutionError indicates the target itself failed: it returned a
	// non-nil error or panicked during execution.
	KindExecutionError FailureKind = "EXECUTION_ERROR"
)

// Error is a per-task failure captured by the dispatch loop.
//
// Task failures never propagate as Go errors across the loop boundary; they
// are recorded in the event's Outcome and retrieved by the producer. Param
// is set for argument failures that can name an offending parameter.
type Error struct {
	// Kind identifies the failure category.
	Kind FailureKind

	// Method is the target name the event resolved (or failed to resolve).
	Method string

	// Param names the offending parameter, when one can be identified.
	Param string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("%s: %s (method=%s)", e.Kind, e.Message, e.Method)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsMethodNotFound returns true if the error is a missing-method failure.
// Uses errors.As to handle wrapped errors.
func IsMethodNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindMethodNotFound
}

// IsInvalidArguments returns true if the error is a validation failure.
func IsInvalidArguments(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindInvalidArguments
}

// IsExecutionError returns true if the error is a target execution failure.
func IsExecutionError(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindExecutionError
}

// NewMethodNotFoundError creates an Error for an unresolved symbolic target.
func NewMethodNotFoundError(method string) *Error {
	return &Error{
		Kind:    KindMethodNotFound,
		Method:  method,
		Message: fmt.Sprintf("method %q not found", method),
	}
}

// NewInvalidArgumentsError creates an Error for a rejected argument set.
func NewInvalidArgumentsError(method, param, message string) *Error {
	return &Error{
		Kind:    KindInvalidArguments,
		Method:  method,
		Param:   param,
		Message: message,
	}
}

// NewExecutionError creates an Error for a failure inside the target.
func NewExecutionError(method string, cause error) *Error {
	return &Error{
		Kind:    KindExecutionError,
		Method:  method,
		Message: cause.Error(),
	}
}

// Errors surfaced synchronously to callers, as opposed to task failures
// recorded in Outcomes.
var (
	// ErrUnknownEvent is returned by Get for an id that was never submitted
	// or whose outcome has already been consumed.
	ErrUnknownEvent = errors.New("unknown event: never submitted or already consumed")

	// ErrTimeout is returned by Get when the wait deadline elapses before
	// the outcome leaves the pending state. The entry stays in the store.
	ErrTimeout = errors.New("timed out waiting for outcome")

	// ErrStopped is returned by Submit once the loop has stopped.
	ErrStopped = errors.New("dispatch loop stopped")
)
