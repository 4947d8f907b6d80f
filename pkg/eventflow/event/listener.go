package event

import (
	"context"

	"github.com/google/uuid"
)

// Handler processes an event payload. The returned value is surfaced on
// the Result when the handler is the only listener for the event; for
// router listeners it must be a string naming the next event to trigger.
type Handler func(ctx context.Context, payload Payload) (any, error)

// PatternHandler processes a line of raw text that matched a pattern
// subscription. match is the full regexp submatch slice (match[0] is the
// matched text, match[1:] the captured groups).
type PatternHandler func(ctx context.Context, text string, match []string) error

// Kind classifies how a listener was bound.
type Kind int

// Listener kinds.
const (
	// KindListen is a plain listener: invoked with the payload, return
	// value surfaced on the Result.
	KindListen Kind = iota

	// KindStart behaves exactly like KindListen at dispatch time but marks
	// the event name as a flow entry point for introspection.
	KindStart

	// KindRouter treats the handler's string return value as the name of
	// a follow-on event to trigger with the same payload.
	KindRouter

	// KindOutput marks pattern-subscription handlers bound to raw text
	// rather than a named event.
	KindOutput
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindListen:
		return "listen"
	case KindStart:
		return "start"
	case KindRouter:
		return "router"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Listener is one binding of a handler to an event name. The *Listener
// value returned at registration is the binding's identity: handler funcs
// are not comparable in Go, so unregistering takes the handle back.
//
// Registering the same handler func twice yields two independent bindings
// (both fire); this is deliberate, so one handler can be attached under
// multiple priorities.
type Listener struct {
	id string

	// EventName is the name this listener is bound to.
	EventName string

	// Handler is invoked with the event payload.
	Handler Handler

	// Priority orders this listener among others bound to the same event
	// name. Defaults to PriorityNormal.
	Priority Priority

	// Kind is how the listener dispatches.
	Kind Kind
}

// ListenerOption configures a listener at registration.
type ListenerOption func(*Listener)

// WithListenerPriority sets the listener's ordering priority.
func WithListenerPriority(p Priority) ListenerOption {
	return func(l *Listener) {
		l.Priority = p
	}
}

// WithKind sets the listener kind. Bus.Listen and Bus.Route cover the
// common cases; this exists for direct Registry use.
func WithKind(k Kind) ListenerOption {
	return func(l *Listener) {
		l.Kind = k
	}
}

// NewListener creates an unregistered listener binding.
func NewListener(eventName string, handler Handler, opts ...ListenerOption) *Listener {
	l := &Listener{
		id:        uuid.NewString(),
		EventName: eventName,
		Handler:   handler,
		Priority:  PriorityNormal,
		Kind:      KindListen,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
