// Package store persists text captured from terminal output by pattern
// subscriptions, along with aggregate match counts. It consumes the event
// bus's subscribe interface (see Recorder) and contains no dispatch logic
// of its own.
package store

import (
	"errors"
	"time"
)

// Capture is one persisted pattern match.
type Capture struct {
	SessionID  string
	Pattern    string
	Line       string
	Groups     []string
	CapturedAt time.Time
}

// Store persists captures. Implementations must be safe for concurrent
// use.
type Store interface {
	// Save stores one capture.
	Save(c Capture) error

	// Recent returns up to limit captures, most recent first, filtered by
	// session id when sessionID is non-empty.
	Recent(sessionID string, limit int) ([]Capture, error)

	// CountByPattern returns aggregate capture counts keyed by pattern.
	CountByPattern() (map[string]int, error)

	// Count returns the total number of captures.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("capture store closed")
)
