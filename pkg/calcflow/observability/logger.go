// Package observability provides structured logging, metrics and tracing
// for calcflow evaluations.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"io"
	"log/slog"
	"time"
)

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// NewLogger returns a text or JSON logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with request_id and route fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "req-123", "integral")
//	enriched.Info("sampling") // includes request_id, route
func EnrichLogger(logger *slog.Logger, requestID, route string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("request_id", requestID),
		slog.String("route", route),
	)
}

// LogEvaluateStart logs the start of an evaluation.
func LogEvaluateStart(logger *slog.Logger, requestID, input string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("request_id", requestID),
		slog.String("input", input),
	)
}

// LogEvaluateComplete logs a successful evaluation.
func LogEvaluateComplete(logger *slog.Logger, requestID, route string, durationMs float64, result string) {
	if logger == nil {
		return
	}
	logger.Info("evaluation completed",
		slog.String("request_id", requestID),
		slog.String("route", route),
		slog.Float64("duration_ms", durationMs),
		slog.String("result", result),
	)
}

// LogEvaluateError logs a failed evaluation.
func LogEvaluateError(logger *slog.Logger, requestID, route string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("evaluation failed",
		slog.String("request_id", requestID),
		slog.String("route", route),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogPanic logs a recovered panic.
func LogPanic(logger *slog.Logger, requestID string, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("evaluation panicked",
		slog.String("request_id", requestID),
		slog.Any("panic", recovered),
	)
}

// LogHistoryError logs a history store failure (non-fatal).
func LogHistoryError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("history store failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogDegreeMode logs a degree mode change.
func LogDegreeMode(logger *slog.Logger, enabled bool) {
	if logger == nil {
		return
	}
	logger.Debug("degree mode changed", slog.Bool("enabled", enabled))
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
