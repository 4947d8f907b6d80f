package store

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory capture store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	captures []Capture
	closed   bool
}

// NewMemoryStore creates a new in-memory capture store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save implements Store.
func (m *MemoryStore) Save(c Capture) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if c.CapturedAt.IsZero() {
		c.CapturedAt = time.Now().UTC()
	}

	// Copy groups to avoid retaining the caller's slice.
	c.Groups = append([]string(nil), c.Groups...)

	m.captures = append(m.captures, c)
	return nil
}

// Recent implements Store.
func (m *MemoryStore) Recent(sessionID string, limit int) ([]Capture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 100
	}

	out := make([]Capture, 0, limit)
	for i := len(m.captures) - 1; i >= 0 && len(out) < limit; i-- {
		c := m.captures[i]
		if sessionID != "" && c.SessionID != sessionID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// CountByPattern implements Store.
func (m *MemoryStore) CountByPattern() (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	counts := make(map[string]int)
	for _, c := range m.captures {
		counts[c.Pattern]++
	}
	return counts, nil
}

// Count implements Store.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return len(m.captures), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
