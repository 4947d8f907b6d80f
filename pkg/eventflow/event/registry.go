package event

import (
	"sort"
	"sync"
)

// Registry is the thread-safe table of event name -> ordered listener
// bindings. Lists are kept sorted by priority descending, with ties broken
// by registration order (stable).
//
// Mutations never corrupt an in-flight dispatch: Listeners returns a
// point-in-time copy, and the bus iterates that snapshot rather than the
// live list.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]*Listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[string][]*Listener),
	}
}

// Register inserts a listener, maintaining priority-descending stable
// order. The same handler may be registered more than once; each call adds
// an independent binding.
func (r *Registry) Register(l *Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.listeners[l.EventName]

	// Insert before the first strictly lower priority so equal-priority
	// listeners keep registration order.
	idx := len(list)
	for i, existing := range list {
		if existing.Priority < l.Priority {
			idx = i
			break
		}
	}

	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = l
	r.listeners[l.EventName] = list
}

// Unregister removes the binding for the given listener handle. Removing
// a listener that was never registered (or already removed) is a no-op.
func (r *Registry) Unregister(l *Listener) {
	if l == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.listeners[l.EventName]
	for i, existing := range list {
		if existing.id == l.id {
			r.listeners[l.EventName] = append(list[:i:i], list[i+1:]...)
			if len(r.listeners[l.EventName]) == 0 {
				delete(r.listeners, l.EventName)
			}
			return
		}
	}
}

// Listeners returns a snapshot of the bindings for an event name, in
// dispatch order. The returned slice is a copy, never the live list.
func (r *Registry) Listeners(eventName string) []*Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.listeners[eventName]
	if len(list) == 0 {
		return nil
	}

	snapshot := make([]*Listener, len(list))
	copy(snapshot, list)
	return snapshot
}

// EventNames returns all event names with at least one binding, sorted.
func (r *Registry) EventNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.listeners))
	for name := range r.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of bindings across all event names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.listeners {
		n += len(list)
	}
	return n
}
