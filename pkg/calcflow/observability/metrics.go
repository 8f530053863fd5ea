package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// MetricsRecorder records calcflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one Evaluate call with its route, duration and error.
	RecordEvaluation(ctx context.Context, route string, duration time.Duration, err error)

	// RecordIntegration records how many samples an integral used and skipped.
	RecordIntegration(ctx context.Context, samples, skipped int)

	// RecordHistory records a history store operation.
	RecordHistory(ctx context.Context, op string, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations        metric.Int64Counter
	evaluationLatency  metric.Float64Histogram
	errors             metric.Int64Counter
	integrationSamples metric.Int64Histogram
	historyOps         metric.Int64Counter
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
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("calcflow"))
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	evaluations, err := meter.Int64Counter("calcflow.evaluations",
		metric.WithDescription("Number of evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evaluationLatency, err := meter.Float64Histogram("calcflow.evaluation.latency_ms",
		metric.WithDescription("Evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("calcflow.errors",
		metric.WithDescription("Number of failed evaluations"),
	)
	if err != nil {
		return nil, err
	}

	samples, err := meter.Int64Histogram("calcflow.integration.samples",
		metric.WithDescription("Samples used per numerical integration"),
	)
	if err != nil {
		return nil, err
	}

	historyOps, err := meter.Int64Counter("calcflow.history.operations",
		metric.WithDescription("Number of history store operations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:        evaluations,
		evaluationLatency:  evaluationLatency,
		errors:             errs,
		integrationSamples: samples,
		historyOps:         historyOps,
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

// NewMetricsRecorderFromMeter builds a recorder on an explicit meter,
// bypassing the global provider.
func NewMetricsRecorderFromMeter(meter metric.Meter) (MetricsRecorder, error) {
	m, err := newOtelMetrics(meter)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, route string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("route", route),
		attribute.Bool("success", err == nil),
	}

	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evaluationLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("route", route),
			attribute.String("kind", calcerrors.KindOf(err).String()),
		))
	}
}

// RecordIntegration records an integration's sample counts.
func (m *otelMetrics) RecordIntegration(ctx context.Context, samples, skipped int) {
	m.integrationSamples.Record(ctx, int64(samples), metric.WithAttributes(
		attribute.Int("skipped", skipped),
	))
}

// RecordHistory records a history store operation.
func (m *otelMetrics) RecordHistory(ctx context.Context, op string, err error) {
	m.historyOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.Bool("success", err == nil),
	))
}
