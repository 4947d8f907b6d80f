package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/eventflow/pkg/eventflow/observability"
)

// Bus lifecycle states.
const (
	stateUnstarted int32 = iota
	stateRunning
	stateStopped
)

// DefaultQueueSize is the buffer of the ordered delivery queue.
const DefaultQueueSize = 256

// DefaultMaxRouteDepth bounds router chains. A chain that exceeds it is
// reported as a failed Result rather than recursing forever.
const DefaultMaxRouteDepth = 25

// Bus dispatches named events to registered listeners. Create one with
// NewBus; the zero value is not usable.
//
// Queued triggers require a running bus (Start). Immediate triggers and
// TriggerAndWait are always synchronous and work in any state, so tests
// can observe effects without a scheduler.
type Bus struct {
	registry *Registry
	hist     *history

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	maxRouteDepth int
	queueSize     int

	patternMu sync.RWMutex
	patterns  []*PatternSubscription

	state   atomic.Int32
	queueMu sync.RWMutex
	queue   chan *Result
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Bus.
type Option func(*Bus)

// WithHistoryCapacity bounds the dispatch history log.
// Default: DefaultHistoryCapacity.
func WithHistoryCapacity(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.hist = newHistory(n)
		}
	}
}

// WithMaxRouteDepth bounds cascading router chains.
// Default: DefaultMaxRouteDepth.
func WithMaxRouteDepth(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.maxRouteDepth = n
		}
	}
}

// WithQueueSize sets the delivery queue buffer for queued triggers.
// Default: DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(b *Bus) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithTracing sets the span manager.
// Default: observability.NoopSpanManager.
func WithTracing(s observability.SpanManager) Option {
	return func(b *Bus) {
		if s != nil {
			b.spans = s
		}
	}
}

// NewBus creates a bus in the unstarted state.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		registry:      NewRegistry(),
		hist:          newHistory(DefaultHistoryCapacity),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		maxRouteDepth: DefaultMaxRouteDepth,
		queueSize:     DefaultQueueSize,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.queue = make(chan *Result, b.queueSize)
	return b
}

// Registry returns the bus's listener registry.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Running reports whether the bus is accepting queued triggers.
func (b *Bus) Running() bool {
	return b.state.Load() == stateRunning
}

// Start launches the delivery worker. Idempotent; a stopped bus stays
// stopped.
func (b *Bus) Start() {
	if !b.state.CompareAndSwap(stateUnstarted, stateRunning) {
		return
	}

	b.wg.Add(1)
	go b.deliver()

	observability.LogBusStarted(b.logger, b.queueSize)
}

// Stop prevents further dispatch. In-flight immediate dispatches finish;
// queued triggers that have not run yet are dropped (best-effort, not
// durable). Idempotent.
func (b *Bus) Stop() {
	if !b.state.CompareAndSwap(stateRunning, stateStopped) {
		// Stopping an unstarted bus still moves it to stopped.
		b.state.CompareAndSwap(stateUnstarted, stateStopped)
		return
	}

	close(b.stopCh)
	b.wg.Wait()

	// Drain whatever the worker left behind so waiters unblock. Triggers
	// enqueue under the read lock, so once the drain holds the write lock
	// nothing can land in the queue behind it.
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	for {
		select {
		case res := <-b.queue:
			b.dropResult(context.Background(), res, ErrStopped.Error())
		default:
			observability.LogBusStopped(b.logger)
			return
		}
	}
}

// deliver is the single worker consuming the ordered delivery queue.
// Running all queued triggers on one goroutine preserves FIFO order
// relative to other queued triggers.
func (b *Bus) deliver() {
	defer b.wg.Done()
	for {
		select {
		case res := <-b.queue:
			b.dispatch(context.Background(), res)
		case <-b.stopCh:
			return
		}
	}
}

// triggerConfig is assembled from TriggerOptions.
type triggerConfig struct {
	source    string
	priority  Priority
	immediate bool
}

// TriggerOption configures one trigger call.
type TriggerOption func(*triggerConfig)

// WithSource sets the event's origin identifier.
func WithSource(source string) TriggerOption {
	return func(c *triggerConfig) {
		c.source = source
	}
}

// WithPriority tags the event with a priority. Default: PriorityNormal.
func WithPriority(p Priority) TriggerOption {
	return func(c *triggerConfig) {
		c.priority = p
	}
}

// Immediate dispatches inline: Trigger returns only after every listener
// has completed. Immediate triggers bypass the delivery queue and work
// regardless of bus state.
func Immediate() TriggerOption {
	return func(c *triggerConfig) {
		c.immediate = true
	}
}

// Trigger constructs an event and dispatches it to the listeners bound to
// name. By default the event is placed on the ordered delivery queue and
// the returned Result completes asynchronously (see Result.Wait); with
// Immediate the call returns a completed Result.
//
// Listener failures surface through Result.Success and Result.Error, never
// as panics or errors escaping the bus. An event with no listeners
// succeeds.
func (b *Bus) Trigger(ctx context.Context, name string, payload Payload, opts ...TriggerOption) *Result {
	cfg := triggerConfig{priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := newResult(NewEvent(name, payload, cfg.source, cfg.priority))

	if cfg.immediate {
		b.dispatch(ctx, res)
		return res
	}

	// The running check and the enqueue share the read lock so an entry
	// cannot land in the queue after Stop's drain has completed. If the
	// stop channel closes mid-select, both the enqueue and the stop case
	// may be ready; Stop drains either way, so the result still resolves.
	b.queueMu.RLock()
	if !b.Running() {
		b.queueMu.RUnlock()
		b.dropResult(ctx, res, ErrNotRunning.Error())
		return res
	}

	select {
	case b.queue <- res:
		b.queueMu.RUnlock()
	case <-b.stopCh:
		b.queueMu.RUnlock()
		b.dropResult(ctx, res, ErrStopped.Error())
	case <-ctx.Done():
		b.queueMu.RUnlock()
		b.dropResult(ctx, res, ctx.Err().Error())
	}
	return res
}

// TriggerAndWait dispatches synchronously and returns the completed
// Result, surfacing the handler's return value when the event has exactly
// one listener.
func (b *Bus) TriggerAndWait(ctx context.Context, name string, payload Payload, opts ...TriggerOption) *Result {
	return b.Trigger(ctx, name, payload, append(opts, Immediate())...)
}

// Listen binds a handler to an event name and returns the binding handle.
func (b *Bus) Listen(name string, handler Handler, opts ...ListenerOption) *Listener {
	l := NewListener(name, handler, opts...)
	b.registry.Register(l)
	return l
}

// Route binds a router to an event name: the handler's string return value
// names the next event to trigger with the same payload.
func (b *Bus) Route(name string, handler Handler, opts ...ListenerOption) *Listener {
	l := NewListener(name, handler, append(opts, WithKind(KindRouter))...)
	b.registry.Register(l)
	return l
}

// Unregister removes a listener binding. No-op for unknown handles.
func (b *Bus) Unregister(l *Listener) {
	b.registry.Unregister(l)
}

// EventNames returns all event names with at least one listener.
func (b *Bus) EventNames() []string {
	return b.registry.EventNames()
}

// History returns up to limit dispatch results, most recent first,
// filtered by event name when eventName is non-empty. limit <= 0 means
// DefaultHistoryLimit.
func (b *Bus) History(eventName string, limit int) []*Result {
	return b.hist.recent(eventName, limit)
}

// dropResult completes a result that will never be dispatched.
func (b *Bus) dropResult(ctx context.Context, res *Result, reason string) {
	res.fail(reason)
	b.hist.append(res)
	b.metrics.RecordDropped(ctx, res.Event.Name)
	observability.LogTriggerDropped(b.logger, res.Event.Name, reason)
	res.complete()
}

// dispatch runs one event through its listener snapshot and records the
// outcome. Router follow-ons run inline, each producing its own history
// entry.
func (b *Bus) dispatch(ctx context.Context, res *Result) {
	b.run(ctx, res)
	b.hist.append(res)
	res.complete()
}

func (b *Bus) run(ctx context.Context, res *Result) {
	evt := res.Event

	depth := routeDepth(ctx)
	if depth >= b.maxRouteDepth {
		res.fail(fmt.Sprintf("%s (%d)", ErrRouteDepthExceeded.Error(), b.maxRouteDepth))
		observability.LogTriggerDropped(b.logger, evt.Name, res.Error)
		return
	}

	ctx, span := b.spans.StartTriggerSpan(ctx, evt.Name, evt.Source)
	start := time.Now()

	listeners := b.registry.Listeners(evt.Name)

	var errs []string
	var routes []string
	var lastValue any
	succeeded := 0

	for _, l := range listeners {
		value, err := b.invoke(ctx, l, evt)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		succeeded++
		lastValue = value

		if l.Kind != KindRouter {
			continue
		}
		// A router's contract is to return the next event name. Anything
		// else is tolerated: we log and move on.
		switch target := value.(type) {
		case string:
			if target != "" {
				routes = append(routes, target)
			}
		default:
			if value != nil {
				observability.LogRouterBadReturn(b.logger, evt.Name, value)
			}
		}
	}

	if len(errs) > 0 {
		res.fail(strings.Join(errs, "; "))
	}
	if len(listeners) == 1 && succeeded == 1 {
		res.Value = lastValue
	}

	b.metrics.RecordDispatch(ctx, evt.Name, time.Since(start), resultErr(res))
	b.spans.EndSpanWithError(span, resultErr(res))
	observability.LogDispatch(b.logger, evt.Name, res.Success, len(listeners), time.Since(start))

	// Cascade router targets with the same payload and this event as
	// source. Each hop is its own result and history entry.
	for _, target := range routes {
		child := newResult(NewEvent(target, evt.Payload, evt.Name, evt.Priority))
		b.run(withRouteDepth(ctx, depth+1), child)
		b.hist.append(child)
		child.complete()
	}
}

// invoke runs a single listener with panic recovery. One listener's
// failure never stops its siblings.
func (b *Bus) invoke(ctx context.Context, l *Listener, evt Event) (value any, err error) {
	hctx, span := b.spans.StartHandlerSpan(ctx, evt.Name, l.Kind.String())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
		b.spans.EndSpanWithError(span, err)
		b.metrics.RecordHandler(hctx, evt.Name, l.Kind.String(), time.Since(start), err)
		if err != nil {
			b.logHandlerError(evt.Name, l.Kind, err)
		}
	}()

	value, err = l.Handler(hctx, evt.Payload)
	return value, err
}

func (b *Bus) logHandlerError(eventName string, kind Kind, err error) {
	observability.LogHandlerError(b.logger, eventName, kind.String(), &DispatchError{
		EventName: eventName,
		Listener:  kind.String(),
		Err:       err,
	})
}

// resultErr adapts result state for metrics and spans.
func resultErr(res *Result) error {
	if res.Success {
		return nil
	}
	return fmt.Errorf("%s", res.Error)
}

// Route-depth tracking mirrors the event depth guard used for nested
// dispatch: each router hop increments the depth carried on the context.
type contextKey string

const routeDepthKey contextKey = "route_depth"

func routeDepth(ctx context.Context) int {
	if v := ctx.Value(routeDepthKey); v != nil {
		return v.(int)
	}
	return 0
}

func withRouteDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, routeDepthKey, depth)
}
