package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

// Recorder bridges the event bus and a capture store: each watched pattern
// becomes a pattern subscription whose matches are persisted, including
// the session id the text arrived on.
type Recorder struct {
	bus    *event.Bus
	store  Store
	logger *slog.Logger

	mu   sync.Mutex
	subs []*event.PatternSubscription
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a recorder persisting to st via subscriptions on
// bus.
func NewRecorder(bus *event.Bus, st Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{bus: bus, store: st}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Watch subscribes to a pattern and persists every match. Returns an
// error only when the pattern does not compile.
func (r *Recorder) Watch(pattern string, opts ...event.PatternOption) error {
	sub, err := r.bus.SubscribeToPattern(pattern, r.persist(pattern), opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

// persist builds the pattern handler storing one capture per match.
func (r *Recorder) persist(pattern string) event.PatternHandler {
	return func(ctx context.Context, text string, match []string) error {
		c := Capture{
			SessionID:  event.SessionIDFromContext(ctx),
			Pattern:    pattern,
			Line:       text,
			Groups:     match[1:],
			CapturedAt: time.Now().UTC(),
		}
		if err := r.store.Save(c); err != nil {
			if r.logger != nil {
				r.logger.Error("capture save failed",
					slog.String("pattern", pattern),
					slog.String("session_id", c.SessionID),
					slog.String("error", err.Error()),
				)
			}
			return err
		}
		return nil
	}
}

// Close removes every subscription the recorder installed. The store
// itself stays open; the caller owns its lifecycle.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subs {
		r.bus.UnsubscribePattern(sub)
	}
	r.subs = nil
}
