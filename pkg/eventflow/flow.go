package eventflow

import (
	"fmt"
	"sync"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

// Flow is a cohesive unit of declared event bindings registered as a
// group. Bindings are declared with the chained builder methods (OnStart,
// On, Route, OnOutput) and installed against a bus with Register.
//
// Flow is NOT thread-safe during building. Declare all bindings from a
// single goroutine, then call Register.
type Flow struct {
	name string

	mu         sync.Mutex
	bindings   []binding
	registered bool
	bus        *event.Bus

	// installed state, populated by Register and torn down by Unregister
	listeners []*event.Listener
	patterns  []*event.PatternSubscription
}

// binding is one declared attachment, either to an event name or to a
// text pattern.
type binding struct {
	kind         event.Kind
	eventName    string // listen/start/router bindings
	pattern      string // output bindings
	handler      event.Handler
	patHandler   event.PatternHandler
	priority     event.Priority
	forwardEvent string
}

// BindOption configures one binding declaration.
type BindOption func(*binding)

// WithPriority orders the listener among others bound to the same event
// name. Default: event.PriorityNormal.
func WithPriority(p event.Priority) BindOption {
	return func(b *binding) {
		b.priority = p
	}
}

// WithForward makes an OnOutput binding also trigger the named event for
// every match, carrying the session id, text, and captured groups.
func WithForward(eventName string) BindOption {
	return func(b *binding) {
		b.forwardEvent = eventName
	}
}

// NewFlow creates a flow with no bindings. An empty name is replaced with
// "flow".
func NewFlow(name string) *Flow {
	if name == "" {
		name = "flow"
	}
	return &Flow{name: name}
}

// Name returns the flow's name.
func (f *Flow) Name() string {
	return f.name
}

func (f *Flow) add(b binding) *Flow {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings = append(f.bindings, b)
	return f
}

// OnStart declares an entry-point listener. It dispatches exactly like On;
// the event name is additionally reported by EntryPoints.
func (f *Flow) OnStart(eventName string, handler event.Handler, opts ...BindOption) *Flow {
	b := binding{kind: event.KindStart, eventName: eventName, handler: handler, priority: event.PriorityNormal}
	for _, opt := range opts {
		opt(&b)
	}
	return f.add(b)
}

// On declares a plain listener for an event name.
func (f *Flow) On(eventName string, handler event.Handler, opts ...BindOption) *Flow {
	b := binding{kind: event.KindListen, eventName: eventName, handler: handler, priority: event.PriorityNormal}
	for _, opt := range opts {
		opt(&b)
	}
	return f.add(b)
}

// Route declares a router: the handler's string return value names the
// next event to trigger with the same payload.
func (f *Flow) Route(eventName string, handler event.Handler, opts ...BindOption) *Flow {
	b := binding{kind: event.KindRouter, eventName: eventName, handler: handler, priority: event.PriorityNormal}
	for _, opt := range opts {
		opt(&b)
	}
	return f.add(b)
}

// OnOutput declares a pattern watcher over raw terminal output. The
// pattern is compiled at Register time; a bad pattern fails Register.
func (f *Flow) OnOutput(pattern string, handler event.PatternHandler, opts ...BindOption) *Flow {
	b := binding{kind: event.KindOutput, pattern: pattern, patHandler: handler}
	for _, opt := range opts {
		opt(&b)
	}
	return f.add(b)
}

// EntryPoints returns the event names declared with OnStart.
func (f *Flow) EntryPoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var names []string
	for _, b := range f.bindings {
		if b.kind == event.KindStart {
			names = append(names, b.eventName)
		}
	}
	return names
}

// Bindings returns the number of declared bindings.
func (f *Flow) Bindings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bindings)
}

// Register installs every declared binding against the bus. A nil bus
// registers against the process-wide DefaultBus. Register may be called
// once per flow instance; a second call is an error. On any failure the
// partially installed bindings are rolled back.
func (f *Flow) Register(bus *event.Bus) error {
	if bus == nil {
		bus = DefaultBus()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.registered {
		return fmt.Errorf("flow %q is already registered", f.name)
	}

	for _, b := range f.bindings {
		switch b.kind {
		case event.KindOutput:
			var opts []event.PatternOption
			if b.forwardEvent != "" {
				opts = append(opts, event.WithForwardEvent(b.forwardEvent))
			}
			sub, err := bus.SubscribeToPattern(b.pattern, b.patHandler, opts...)
			if err != nil {
				f.rollback(bus)
				return fmt.Errorf("flow %q: %w", f.name, err)
			}
			f.patterns = append(f.patterns, sub)

		case event.KindRouter:
			f.listeners = append(f.listeners,
				bus.Route(b.eventName, b.handler, event.WithListenerPriority(b.priority)))

		default:
			f.listeners = append(f.listeners,
				bus.Listen(b.eventName, b.handler,
					event.WithListenerPriority(b.priority), event.WithKind(b.kind)))
		}
	}

	f.bus = bus
	f.registered = true
	return nil
}

// Unregister removes every binding the flow installed. Calling it on a
// flow that was never registered is a no-op.
func (f *Flow) Unregister() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.registered {
		return
	}
	f.rollback(f.bus)
	f.bus = nil
	f.registered = false
}

// rollback removes installed bindings. Caller holds f.mu.
func (f *Flow) rollback(bus *event.Bus) {
	for _, l := range f.listeners {
		bus.Unregister(l)
	}
	for _, sub := range f.patterns {
		bus.UnsubscribePattern(sub)
	}
	f.listeners = nil
	f.patterns = nil
}
