package eventflow

import (
	"sync"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

// Process-wide defaults for callers that do not want to manage explicit
// instances. Anything needing isolation (tests in particular) should
// construct a private Bus/Manager instead; every component here accepts
// an injected bus.
var (
	defaultMu      sync.Mutex
	defaultBus     *event.Bus
	defaultManager *Manager
)

// DefaultBus returns the process-wide bus, constructing and starting it on
// first use.
func DefaultBus() *event.Bus {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBus == nil {
		defaultBus = event.NewBus()
		defaultBus.Start()
	}
	return defaultBus
}

// DefaultManager returns the process-wide flow manager, backed by the
// default bus.
func DefaultManager() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		bus := defaultBus
		if bus == nil {
			bus = event.NewBus()
			bus.Start()
			defaultBus = bus
		}
		defaultManager = NewManager(WithBus(bus))
	}
	return defaultManager
}

// ResetDefaults stops and discards the process-wide bus and manager. The
// next accessor call constructs fresh instances. Intended for tests.
func ResetDefaults() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBus != nil {
		defaultBus.Stop()
	}
	defaultBus = nil
	defaultManager = nil
}
