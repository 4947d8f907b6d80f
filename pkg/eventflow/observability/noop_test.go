package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_ImplementsInterface(t *testing.T) {
	var _ MetricsRecorder = NoopMetrics{}
}

func TestNoopMetrics_RecordDispatch(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(context.Background(), "deploy.requested", 100*time.Millisecond, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(context.Background(), "deploy.requested", 100*time.Millisecond, errors.New("test"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(nil, "deploy.requested", 0, nil)
		})
	})

	t.Run("does not panic with empty event name", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(context.Background(), "", 0, nil)
		})
	})
}

func TestNoopMetrics_RecordHandler(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordHandler(context.Background(), "deploy.requested", "listener", 5*time.Millisecond, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordHandler(context.Background(), "deploy.requested", "router", 5*time.Millisecond, errors.New("test"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordHandler(nil, "", "", 0, nil)
		})
	})
}

func TestNoopMetrics_RecordPatternMatch(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordPatternMatch(context.Background(), `error:\s*(.+)`)
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordPatternMatch(nil, "")
		})
	})
}

func TestNoopMetrics_RecordDropped(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDropped(context.Background(), "deploy.requested")
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDropped(nil, "")
		})
	})
}

func TestNoopSpanManager_ImplementsInterface(t *testing.T) {
	var _ SpanManager = NoopSpanManager{}
}

func TestNoopSpanManager_StartTriggerSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartTriggerSpan(ctx, "deploy.requested", "event-1")

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartTriggerSpan(ctx, "deploy.requested", "event-1")

		// Noop spans are not recording
		assert.False(t, span.IsRecording())
	})

	t.Run("does not panic with empty args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.StartTriggerSpan(context.Background(), "", "")
		})
	})
}

func TestNoopSpanManager_StartHandlerSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartHandlerSpan(ctx, "deploy.requested", "listener")

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartHandlerSpan(ctx, "deploy.requested", "listener")

		assert.False(t, span.IsRecording())
	})

	t.Run("does not panic with empty event name", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.StartHandlerSpan(context.Background(), "", "")
		})
	})
}

func TestNoopSpanManager_EndSpanWithError(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
	})

	t.Run("does not panic with nil error", func(t *testing.T) {
		_, span := sm.StartTriggerSpan(context.Background(), "e", "id")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		_, span := sm.StartTriggerSpan(context.Background(), "e", "id")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("test error"))
		})
	})
}

func TestNoopSpanManager_AddSpanEvent(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		ctx := context.Background()
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(ctx, "test_event", attribute.String("key", "value"))
		})
	})

	t.Run("does not panic with no attributes", func(t *testing.T) {
		ctx := context.Background()
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(ctx, "test_event")
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(nil, "test_event")
		})
	})

	t.Run("does not panic with empty event name", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "")
		})
	})
}

func TestNoopImplementations_NoSideEffects(t *testing.T) {
	// This test verifies that noop implementations can be used
	// in a realistic scenario without any side effects

	metrics := NoopMetrics{}
	spans := NoopSpanManager{}

	ctx := context.Background()

	// Simulate one dispatch
	ctx, triggerSpan := spans.StartTriggerSpan(ctx, "deploy.requested", "event-123")

	for i, kind := range []string{"start", "listener", "router"} {
		ctx, handlerSpan := spans.StartHandlerSpan(ctx, "deploy.requested", kind)

		start := time.Now()
		// Simulate work
		time.Sleep(1 * time.Millisecond)
		duration := time.Since(start)

		var err error
		if i == 1 {
			err = errors.New("simulated error")
		}

		metrics.RecordHandler(ctx, "deploy.requested", kind, duration, err)

		if i == 2 {
			metrics.RecordPatternMatch(ctx, "panic:")
			spans.AddSpanEvent(ctx, "pattern_matched", attribute.String("pattern", "panic:"))
		}

		spans.EndSpanWithError(handlerSpan, err)
	}

	metrics.RecordDispatch(ctx, "deploy.requested", 100*time.Millisecond, nil)
	spans.EndSpanWithError(triggerSpan, nil)

	// If we get here without panicking, the test passes
}
