package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for bus operations.
var (
	// ErrNotRunning indicates a queued trigger was issued while the bus
	// was not running; the event was not dispatched.
	ErrNotRunning = errors.New("bus is not running")

	// ErrStopped indicates the bus stopped while a trigger was waiting to
	// be enqueued.
	ErrStopped = errors.New("bus stopped")

	// ErrRouteDepthExceeded indicates a router chain exceeded the
	// configured depth limit, most likely an event cycle.
	ErrRouteDepthExceeded = errors.New("max route depth exceeded")
)

// DispatchError wraps a handler failure with dispatch context. The bus
// converts these into Result state; they never propagate to callers.
type DispatchError struct {
	EventName string // event being dispatched
	Listener  string // kind of the failing listener
	Err       error  // underlying failure
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if e.Listener != "" {
		return fmt.Sprintf("%s listener for %q: %v", e.Listener, e.EventName, e.Err)
	}
	return fmt.Sprintf("listener for %q: %v", e.EventName, e.Err)
}

// Unwrap returns the underlying error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
