package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventflow/pkg/eventflow/store"
)

func TestMemoryStore_SaveAndRecent(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	require.NoError(t, st.Save(store.Capture{
		SessionID: "sess-1",
		Pattern:   `error:\s*(.+)`,
		Line:      "error: disk full",
		Groups:    []string{"disk full"},
	}))
	require.NoError(t, st.Save(store.Capture{
		SessionID: "sess-2",
		Pattern:   "panic:",
		Line:      "panic: oops",
	}))
	require.NoError(t, st.Save(store.Capture{
		SessionID: "sess-1",
		Pattern:   `error:\s*(.+)`,
		Line:      "error: timeout",
		Groups:    []string{"timeout"},
	}))

	t.Run("filters by session, most recent first", func(t *testing.T) {
		got, err := st.Recent("sess-1", 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "error: timeout", got[0].Line)
		assert.Equal(t, "error: disk full", got[1].Line)
	})

	t.Run("empty session returns all", func(t *testing.T) {
		got, err := st.Recent("", 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("limit caps results", func(t *testing.T) {
		got, err := st.Recent("", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "error: timeout", got[0].Line)
	})

	t.Run("sets captured_at when zero", func(t *testing.T) {
		got, err := st.Recent("sess-2", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.False(t, got[0].CapturedAt.IsZero())
	})
}

func TestMemoryStore_GroupsCopied(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	groups := []string{"original"}
	require.NoError(t, st.Save(store.Capture{
		SessionID: "sess-1",
		Pattern:   "p",
		Line:      "l",
		Groups:    groups,
	}))

	// Mutating the caller's slice must not affect the stored capture.
	groups[0] = "mutated"

	got, err := st.Recent("sess-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"original"}, got[0].Groups)
}

func TestMemoryStore_Counts(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, st.Save(store.Capture{
			SessionID: "sess-1",
			Pattern:   "error:",
			Line:      fmt.Sprintf("error: %d", i),
		}))
	}
	require.NoError(t, st.Save(store.Capture{
		SessionID: "sess-1",
		Pattern:   "warn:",
		Line:      "warn: slow",
	}))

	counts, err := st.CountByPattern()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"error:": 2, "warn:": 1}, counts)

	total, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMemoryStore_ClosedOperations(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Close())

	assert.ErrorIs(t, st.Save(store.Capture{}), store.ErrStoreClosed)

	_, err := st.Recent("", 0)
	assert.ErrorIs(t, err, store.ErrStoreClosed)

	_, err = st.CountByPattern()
	assert.ErrorIs(t, err, store.ErrStoreClosed)

	_, err = st.Count()
	assert.ErrorIs(t, err, store.ErrStoreClosed)

	// Close again is safe.
	assert.NoError(t, st.Close())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			_ = st.Save(store.Capture{
				SessionID: "sess-1",
				Pattern:   "error:",
				Line:      "error: again",
			})
			_, _ = st.Recent("sess-1", 10)
		}(i)
	}

	wg.Wait()

	total, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, numGoroutines, total)
}
