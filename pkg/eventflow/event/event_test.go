package event_test

import (
	"testing"
	"time"

	"github.com/randalmurphal/eventflow/pkg/eventflow/event"
)

func TestNewEventGeneratesID(t *testing.T) {
	a := event.NewEvent("build", nil, "", event.PriorityNormal)
	b := event.NewEvent("build", nil, "", event.PriorityNormal)

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected generated event IDs")
	}
	if a.ID == b.ID {
		t.Error("expected unique event IDs")
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNewEventFields(t *testing.T) {
	payload := event.Payload{"value": 42}
	evt := event.NewEvent("deploy", payload, "cli", event.PriorityHigh)

	if evt.Name != "deploy" {
		t.Errorf("expected name deploy, got %s", evt.Name)
	}
	if evt.Source != "cli" {
		t.Errorf("expected source cli, got %s", evt.Source)
	}
	if evt.Priority != event.PriorityHigh {
		t.Errorf("expected high priority, got %s", evt.Priority)
	}
	if evt.Payload["value"] != 42 {
		t.Error("expected payload to be carried")
	}
	if time.Since(evt.CreatedAt) > time.Minute {
		t.Error("expected a recent timestamp")
	}
}

func TestPriorityOrdering(t *testing.T) {
	if !(event.PriorityLow < event.PriorityNormal &&
		event.PriorityNormal < event.PriorityHigh &&
		event.PriorityHigh < event.PriorityCritical) {
		t.Error("priorities must be totally ordered low < normal < high < critical")
	}
}

func TestPriorityString(t *testing.T) {
	cases := map[event.Priority]string{
		event.PriorityLow:      "low",
		event.PriorityNormal:   "normal",
		event.PriorityHigh:     "high",
		event.PriorityCritical: "critical",
		event.Priority(99):     "unknown",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Priority(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[event.Kind]string{
		event.KindListen: "listen",
		event.KindStart:  "start",
		event.KindRouter: "router",
		event.KindOutput: "output",
		event.Kind(99):   "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
