package config

import (
	"fmt"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

// Bus holds the tunable knobs of an event bus. A zero field means "use
// the bus default" for that knob, so a partial config file tunes only
// what it names.
type Bus struct {
	// HistoryCapacity bounds the dispatch history log.
	HistoryCapacity int `yaml:"history_capacity" json:"history_capacity"`

	// MaxRouteDepth bounds cascading router chains.
	MaxRouteDepth int `yaml:"max_route_depth" json:"max_route_depth"`

	// QueueSize sets the delivery queue buffer for queued triggers.
	QueueSize int `yaml:"queue_size" json:"queue_size"`
}

// Default returns a Bus populated with the event package defaults.
func Default() Bus {
	return Bus{
		HistoryCapacity: event.DefaultHistoryCapacity,
		MaxRouteDepth:   event.DefaultMaxRouteDepth,
		QueueSize:       event.DefaultQueueSize,
	}
}

// Validate rejects values the bus cannot honor. Zero is allowed; it
// stands for the default.
func (c Bus) Validate() error {
	if c.HistoryCapacity < 0 {
		return fmt.Errorf("history_capacity must not be negative, got %d", c.HistoryCapacity)
	}
	if c.MaxRouteDepth < 0 {
		return fmt.Errorf("max_route_depth must not be negative, got %d", c.MaxRouteDepth)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue_size must not be negative, got %d", c.QueueSize)
	}
	return nil
}

// Options translates the config into bus options. Zero fields are
// skipped so the bus defaults apply.
//
// Example:
//
//	cfg, err := config.FromFile("eventflow.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bus := event.NewBus(cfg.Options()...)
func (c Bus) Options() []event.Option {
	var opts []event.Option
	if c.HistoryCapacity > 0 {
		opts = append(opts, event.WithHistoryCapacity(c.HistoryCapacity))
	}
	if c.MaxRouteDepth > 0 {
		opts = append(opts, event.WithMaxRouteDepth(c.MaxRouteDepth))
	}
	if c.QueueSize > 0 {
		opts = append(opts, event.WithQueueSize(c.QueueSize))
	}
	return opts
}
