package event_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

func TestSubscribeToPatternBadRegex(t *testing.T) {
	bus := event.NewBus()

	_, err := bus.SubscribeToPattern("(unclosed", func(ctx context.Context, text string, match []string) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
}

func TestPatternMatchesPerLine(t *testing.T) {
	bus := event.NewBus()

	var matches atomic.Int32
	_, err := bus.SubscribeToPattern(`error:\s*(.+)`, func(ctx context.Context, text string, match []string) error {
		matches.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	ctx := context.Background()
	bus.ProcessTerminalOutput(ctx, "sess-1", "error: connection failed")
	bus.ProcessTerminalOutput(ctx, "sess-1", "success: all good")
	bus.ProcessTerminalOutput(ctx, "sess-1", "error: timeout occurred")

	if matches.Load() != 2 {
		t.Errorf("expected exactly 2 matches, got %d", matches.Load())
	}
}

func TestPatternPartialMatch(t *testing.T) {
	bus := event.NewBus()

	var matches atomic.Int32
	bus.SubscribeToPattern(`warn`, func(ctx context.Context, text string, match []string) error {
		matches.Add(1)
		return nil
	})

	// Matching is a search anywhere in the text, not a full-string match.
	bus.ProcessTerminalOutput(context.Background(), "s", "12:00:01 warn something happened")

	if matches.Load() != 1 {
		t.Errorf("expected partial match, got %d", matches.Load())
	}
}

func TestPatternCapturedGroups(t *testing.T) {
	bus := event.NewBus()

	var got []string
	bus.SubscribeToPattern(`error:\s*(.+)`, func(ctx context.Context, text string, match []string) error {
		got = append([]string(nil), match...)
		return nil
	})

	bus.ProcessTerminalOutput(context.Background(), "s", "error: connection failed")

	if len(got) != 2 || got[1] != "connection failed" {
		t.Errorf("expected captured group, got %v", got)
	}
}

func TestPatternForwardEvent(t *testing.T) {
	bus := event.NewBus()

	var payload event.Payload
	bus.Listen("output.error", func(ctx context.Context, p event.Payload) (any, error) {
		payload = p
		return nil, nil
	})

	bus.SubscribeToPattern(`error:\s*(.+)`,
		func(ctx context.Context, text string, match []string) error { return nil },
		event.WithForwardEvent("output.error"))

	bus.ProcessTerminalOutput(context.Background(), "sess-42", "error: timeout occurred")

	if payload == nil {
		t.Fatal("expected forward event to be dispatched synchronously")
	}
	if payload[event.PayloadSessionID] != "sess-42" {
		t.Errorf("expected session id in payload, got %v", payload[event.PayloadSessionID])
	}
	if payload[event.PayloadText] != "error: timeout occurred" {
		t.Errorf("expected text in payload, got %v", payload[event.PayloadText])
	}
	groups, ok := payload[event.PayloadGroups].([]string)
	if !ok || len(groups) != 1 || groups[0] != "timeout occurred" {
		t.Errorf("expected captured groups in payload, got %v", payload[event.PayloadGroups])
	}
}

func TestPatternHandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := event.NewBus()

	var second atomic.Int32
	bus.SubscribeToPattern(`error`, func(ctx context.Context, text string, match []string) error {
		panic("bad handler")
	})
	bus.SubscribeToPattern(`error`, func(ctx context.Context, text string, match []string) error {
		second.Add(1)
		return nil
	})

	bus.ProcessTerminalOutput(context.Background(), "s", "error: nope")

	if second.Load() != 1 {
		t.Error("expected the second subscription to still be evaluated")
	}
}

func TestUnsubscribePattern(t *testing.T) {
	bus := event.NewBus()

	var matches atomic.Int32
	sub, _ := bus.SubscribeToPattern(`error`, func(ctx context.Context, text string, match []string) error {
		matches.Add(1)
		return nil
	})

	bus.ProcessTerminalOutput(context.Background(), "s", "error one")
	bus.UnsubscribePattern(sub)
	bus.ProcessTerminalOutput(context.Background(), "s", "error two")

	if matches.Load() != 1 {
		t.Errorf("expected 1 match after unsubscribe, got %d", matches.Load())
	}

	// Unknown and nil handles are no-ops.
	bus.UnsubscribePattern(sub)
	bus.UnsubscribePattern(nil)
}

func TestSessionIDFromContext(t *testing.T) {
	bus := event.NewBus()

	var sessionID string
	bus.SubscribeToPattern(`.+`, func(ctx context.Context, text string, match []string) error {
		sessionID = event.SessionIDFromContext(ctx)
		return nil
	})

	bus.ProcessTerminalOutput(context.Background(), "sess-7", "anything")

	if sessionID != "sess-7" {
		t.Errorf("expected session id from context, got %q", sessionID)
	}
	if event.SessionIDFromContext(context.Background()) != "" {
		t.Error("expected empty session id outside terminal dispatch")
	}
}
