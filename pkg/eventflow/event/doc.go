// Package event provides the in-process event bus at the core of eventflow.
//
// # Overview
//
// The package implements a named-event publish/subscribe dispatcher with
// deterministic ordering and per-handler failure isolation:
//
//   - Event: an immutable named occurrence with a payload and priority
//   - Listener: a handler bound to an event name, ordered by priority
//   - Registry: the thread-safe table of event name -> listener bindings
//   - Bus: trigger/subscribe lifecycle, queued and immediate dispatch,
//     router chaining, pattern subscriptions, and a bounded history log
//
// # Dispatch Modes
//
// Trigger enqueues an event onto a single ordered delivery queue consumed
// by one worker goroutine, so queued triggers are delivered FIFO relative
// to each other. TriggerAndWait (or the Immediate option) dispatches inline
// and returns only after every listener has completed, which makes side
// effects observable immediately. Immediate dispatch works even when the
// bus has not been started, so tests never need a running scheduler.
//
// # Routing
//
// A listener registered with Route is a router: its string return value
// names the next event to trigger, with the same payload and the previous
// event name as source. Chains may cascade through any number of routers;
// a depth guard converts accidental cycles into a failed Result instead of
// unbounded recursion.
//
// # Failure Model
//
// Handler errors and panics never escape the bus. Each invocation is
// isolated: one failing handler does not stop its siblings, and the
// aggregate outcome is reported through Result.Success and Result.Error.
// Triggering an event with no listeners is a success, not an error.
package event
