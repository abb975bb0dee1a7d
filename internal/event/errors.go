package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatcher.
var (
	// ErrListenerPanic is the sentinel matched by PanicError.
	ErrListenerPanic = errors.New("listener panicked")

	// ErrRetryExhausted is reported when an event is discarded after its
	// final retry attempt fails.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// ListenerError wraps a failure raised by a listener during delivery.
type ListenerError struct {
	// Kind is the kind of the event being delivered.
	Kind Kind

	// EventID identifies the originating dispatch.
	EventID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener error for %s event %s: %v", e.Kind, e.EventID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered listener panic as an error.
type PanicError struct {
	// Kind is the kind of the event being delivered.
	Kind Kind

	// EventID identifies the originating dispatch.
	EventID string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery time.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panic for %s event %s: %v", e.Kind, e.EventID, e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}

// ErrorReport is delivered to registered error observers when a listener
// fails or an event is discarded after exhausting its retry budget.
type ErrorReport struct {
	// Event is the event involved.
	Event Event

	// Err describes the failure. Listener failures carry *ListenerError
	// or *PanicError; terminal retry exhaustion carries ErrRetryExhausted.
	Err error
}
