package event

import "sync"

// DefaultHistoryCapacity bounds the history log unless overridden with
// WithHistoryCapacity.
const DefaultHistoryCapacity = 1000

// DefaultHistoryLimit is the number of entries History returns when the
// caller passes limit <= 0.
const DefaultHistoryLimit = 100

// history is a bounded FIFO log of recent dispatch results. Appends and
// reads are guarded by a single mutex; the oldest entry is evicted when
// the log is over capacity.
type history struct {
	mu       sync.Mutex
	entries  []*Result
	capacity int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &history{capacity: capacity}
}

func (h *history) append(r *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, r)
	if len(h.entries) > h.capacity {
		over := len(h.entries) - h.capacity
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

// recent returns up to limit results, most recent first, optionally
// filtered by event name ("" matches all).
func (h *history) recent(eventName string, limit int) []*Result {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Result, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		r := h.entries[i]
		if eventName != "" && r.Event.Name != eventName {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (h *history) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
