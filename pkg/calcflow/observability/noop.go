package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordEvaluation(_ context.Context, _ string, _ time.Duration, _ error) {}
func (NoopMetrics) RecordIntegration(_ context.Context, _, _ int)                          {}
func (NoopMetrics) RecordHistory(_ context.Context, _ string, _ error)                     {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartEvaluateSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartEvaluateSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartStageSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartStageSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error)                            {}
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
