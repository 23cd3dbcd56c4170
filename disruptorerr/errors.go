// Package disruptorerr defines the small, closed error taxonomy shared by
// every package in this module, mirroring the sentinel-error style of
// gnet's pkg/errors package (one var block of wrapped errors.New values,
// no custom error types beyond what carries extra data).
package disruptorerr

import (
	"errors"
	"fmt"
)

var (
	// ErrAlerted is returned by a wait strategy's WaitFor when the
	// barrier's alert flag is observed before the requested sequence
	// becomes available. It is cooperative cancellation, not a fault.
	ErrAlerted = errors.New("disruptor: wait aborted by alert")

	// ErrInsufficientCapacity is returned by TryNext when the ring does
	// not have room for the requested claim and the caller asked for a
	// non-blocking probe rather than backpressure.
	ErrInsufficientCapacity = errors.New("disruptor: insufficient capacity")

	// ErrInvalidArgument marks programmer error: a non-power-of-two
	// buffer size, or a claim size outside [1, bufferSize].
	ErrInvalidArgument = errors.New("disruptor: invalid argument")

	// ErrGuardTimeout names the blocking wait strategy's internal
	// liveness-guard condition. Nothing in this module returns it: the
	// Blocking strategy's guard ticker only re-wakes waiters.
	ErrGuardTimeout = errors.New("disruptor: internal wait guard timeout")
)

// NewInvalidArgument wraps ErrInvalidArgument with a message describing
// which argument failed validation.
func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidArgument)
}

// NewInsufficientCapacity wraps ErrInsufficientCapacity with a message
// describing the claim that was denied.
func NewInsufficientCapacity(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInsufficientCapacity)
}

// HandlerError carries a handler-originated failure together with the
// sequence and slot it occurred on, so an error sink can log or report
// without the processor needing to know the handler's error type. It
// implements Unwrap so errors.Is/errors.As compose normally with Cause,
// which is the idiomatic Go stand-in for the exception hierarchy the
// source design routes to its error sink.
type HandlerError struct {
	Cause    error
	Sequence int64
	Slot     any
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("disruptor: handler failed at sequence %d: %v", e.Sequence, e.Cause)
}

func (e *HandlerError) Unwrap() error {
	return e.Cause
}
