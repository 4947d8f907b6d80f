package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload carries arbitrary key/value data with an event.
// The bus never inspects payload values; collaborators may carry opaque
// objects (session handles, capability objects) through it.
type Payload map[string]any

// Priority orders both events and the listeners bound to a single event
// name. Higher priorities dispatch first.
type Priority int

// Priorities, lowest to highest.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Event is an immutable named occurrence. Events are created by the bus
// (or NewEvent) and never modified afterwards.
type Event struct {
	// ID is a process-unique identifier, always generated at construction.
	ID string

	// Name is the event name listeners bind to. Never empty.
	Name string

	// Payload is the event data. May be nil.
	Payload Payload

	// Source identifies the event's origin. For router follow-on events
	// this is the name of the event whose router issued them.
	Source string

	// Priority tags the event itself. It is independent of listener
	// priorities, which control ordering among peers of one event name.
	Priority Priority

	// CreatedAt is when the event was constructed.
	CreatedAt time.Time
}

// NewEvent creates an event with a generated ID and the current time.
// Callers cannot supply their own ID.
func NewEvent(name string, payload Payload, source string, priority Priority) Event {
	return Event{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		Source:    source,
		Priority:  priority,
		CreatedAt: time.Now(),
	}
}
