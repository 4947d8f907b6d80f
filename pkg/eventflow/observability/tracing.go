package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the eventflow tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventflow")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTriggerSpan starts a span for one event dispatch.
	// Returns the context with span and the span itself.
	StartTriggerSpan(ctx context.Context, eventName, source string) (context.Context, trace.Span)

	// StartHandlerSpan starts a span for a single listener invocation.
	// The handler span should be a child of the trigger span.
	StartHandlerSpan(ctx context.Context, eventName, kind string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartTriggerSpan starts a span for one event dispatch.
func (m *otelSpanManager) StartTriggerSpan(ctx context.Context, eventName, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventflow.trigger",
		trace.WithAttributes(
			attribute.String("event.name", eventName),
			attribute.String("event.source", source),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartHandlerSpan starts a span for a single listener invocation.
func (m *otelSpanManager) StartHandlerSpan(ctx context.Context, eventName, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventflow.handler."+eventName,
		trace.WithAttributes(
			attribute.String("event.name", eventName),
			attribute.String("listener.kind", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
