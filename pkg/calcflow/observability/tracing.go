package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("calcflow")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvaluateSpan starts a span for one Evaluate call.
	StartEvaluateSpan(ctx context.Context, sessionID, requestID string) (context.Context, trace.Span)

	// StartStageSpan starts a child span for the routed stage
	// (evaluate, equation, derivative, integral).
	StartStageSpan(ctx context.Context, route string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses the global tracer provider.
//
// Configure the provider before evaluating:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: tracer}
}

// NewSpanManagerFromProvider returns a SpanManager bound to tp.
func NewSpanManagerFromProvider(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer("calcflow")}
}

func (m *otelSpanManager) StartEvaluateSpan(ctx context.Context, sessionID, requestID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "calcflow.evaluate",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("request.id", requestID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartStageSpan(ctx context.Context, route string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "calcflow.stage."+route,
		trace.WithAttributes(
			attribute.String("stage.route", route),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
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

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
