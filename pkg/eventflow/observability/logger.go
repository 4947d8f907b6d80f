// Package observability provides structured logging, metrics, and
// distributed tracing for eventflow.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogBusStarted logs bus startup.
func LogBusStarted(logger *slog.Logger, queueSize int) {
	if logger == nil {
		return
	}
	logger.Info("event bus started",
		slog.Int("queue_size", queueSize),
	)
}

// LogBusStopped logs bus shutdown.
func LogBusStopped(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("event bus stopped")
}

// LogDispatch logs completion of one event dispatch.
func LogDispatch(logger *slog.Logger, eventName string, success bool, listeners int, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("event dispatched",
		slog.String("event", eventName),
		slog.Bool("success", success),
		slog.Int("listeners", listeners),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000.0),
	)
}

// LogHandlerError logs a listener failure (non-fatal; siblings still run).
func LogHandlerError(logger *slog.Logger, eventName, kind string, err error) {
	if logger == nil {
		return
	}
	logger.Error("listener failed",
		slog.String("event", eventName),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}

// LogRouterBadReturn logs a router returning something other than an
// event name. The dispatch continues; routing just doesn't happen.
func LogRouterBadReturn(logger *slog.Logger, eventName string, value any) {
	if logger == nil {
		return
	}
	logger.Warn("router returned non-string value",
		slog.String("event", eventName),
		slog.Any("value", value),
	)
}

// LogTriggerDropped logs a queued trigger that will not be dispatched.
func LogTriggerDropped(logger *slog.Logger, eventName, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("trigger dropped",
		slog.String("event", eventName),
		slog.String("reason", reason),
	)
}

// LogPatternSubscribed logs a new pattern subscription.
func LogPatternSubscribed(logger *slog.Logger, pattern, forwardEvent string) {
	if logger == nil {
		return
	}
	logger.Debug("pattern subscribed",
		slog.String("pattern", pattern),
		slog.String("forward_event", forwardEvent),
	)
}

// EnrichLogger adds dispatch context to a logger.
// Returns a new logger with event and source fields.
func EnrichLogger(logger *slog.Logger, eventName, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event", eventName),
		slog.String("source", source),
	)
}
