package eventflow

import (
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

// Manager is a named collection of flows sharing one event bus. Flow names
// are unique: registering a flow under a name that is already taken
// replaces the existing flow (the old flow is unregistered once the new
// one has registered successfully).
//
// Start and Stop delegate to the underlying bus; flows have no lifecycle
// of their own beyond registration.
type Manager struct {
	mu    sync.RWMutex
	bus   *event.Bus
	flows map[string]*Flow
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBus makes the manager use an existing bus instead of creating its
// own.
func WithBus(bus *event.Bus) ManagerOption {
	return func(m *Manager) {
		if bus != nil {
			m.bus = bus
		}
	}
}

// NewManager creates a manager. Without WithBus it owns a fresh bus.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		flows: make(map[string]*Flow),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	return m
}

// Bus returns the bus shared by all managed flows.
func (m *Manager) Bus() *event.Bus {
	return m.bus
}

// RegisterFlow registers the flow against the manager's bus and stores it
// under its name. A flow already stored under that name is replaced.
func (m *Manager) RegisterFlow(f *Flow) error {
	if f == nil {
		return fmt.Errorf("cannot register a nil flow")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Register the replacement before tearing down the incumbent: if the
	// new flow fails to register, the name keeps its working flow.
	if err := f.Register(m.bus); err != nil {
		return err
	}

	if existing, ok := m.flows[f.Name()]; ok {
		existing.Unregister()
	}

	m.flows[f.Name()] = f
	return nil
}

// UnregisterFlow removes the named flow and its bindings. Unknown names
// are a no-op.
func (m *Manager) UnregisterFlow(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flows[name]
	if !ok {
		return
	}
	f.Unregister()
	delete(m.flows, name)
}

// Flow returns the named flow, or false when absent.
func (m *Manager) Flow(name string) (*Flow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flows[name]
	return f, ok
}

// FlowNames returns the names of all registered flows, sorted.
func (m *Manager) FlowNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.flows))
	for name := range m.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts the underlying bus.
func (m *Manager) Start() {
	m.bus.Start()
}

// Stop stops the underlying bus. Registered flows keep their bindings;
// they simply stop receiving queued triggers.
func (m *Manager) Stop() {
	m.bus.Stop()
}
