package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records eventflow dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records one event dispatch with its duration and
	// aggregate error status.
	RecordDispatch(ctx context.Context, eventName string, duration time.Duration, err error)

	// RecordHandler records a single listener invocation.
	RecordHandler(ctx context.Context, eventName, kind string, duration time.Duration, err error)

	// RecordPatternMatch records a pattern subscription match.
	RecordPatternMatch(ctx context.Context, pattern string)

	// RecordDropped records a queued trigger that was never dispatched.
	RecordDropped(ctx context.Context, eventName string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	handlerRuns     metric.Int64Counter
	handlerErrors   metric.Int64Counter
	patternMatches  metric.Int64Counter
	dropped         metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventflow")

	dispatches, err := meter.Int64Counter("eventflow.dispatches",
		metric.WithDescription("Number of event dispatches"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("eventflow.dispatch.latency_ms",
		metric.WithDescription("Event dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerRuns, err := meter.Int64Counter("eventflow.handler.runs",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	handlerErrors, err := meter.Int64Counter("eventflow.handler.errors",
		metric.WithDescription("Number of listener failures"),
	)
	if err != nil {
		return nil, err
	}

	patternMatches, err := meter.Int64Counter("eventflow.pattern.matches",
		metric.WithDescription("Number of pattern subscription matches"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter("eventflow.triggers.dropped",
		metric.WithDescription("Number of queued triggers dropped before dispatch"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		handlerRuns:     handlerRuns,
		handlerErrors:   handlerErrors,
		patternMatches:  patternMatches,
		dropped:         dropped,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records one event dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventName string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", eventName),
		attribute.Bool("success", err == nil),
	}
	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordHandler records a single listener invocation.
func (m *otelMetrics) RecordHandler(ctx context.Context, eventName, kind string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", eventName),
		attribute.String("kind", kind),
	}

	m.handlerRuns.Add(ctx, 1, metric.WithAttributes(attrs...))

	if err != nil {
		m.handlerErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordPatternMatch records a pattern subscription match.
func (m *otelMetrics) RecordPatternMatch(ctx context.Context, pattern string) {
	m.patternMatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pattern", pattern),
	))
}

// RecordDropped records a dropped queued trigger.
func (m *otelMetrics) RecordDropped(ctx context.Context, eventName string) {
	m.dropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
	))
}
