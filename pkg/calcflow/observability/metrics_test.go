package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// setupMetricsTest creates a test meter provider and a recorder bound to it.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, MetricsRecorder) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	m, err := NewMetricsRecorderFromMeter(provider.Meter("calcflow"))
	require.NoError(t, err)
	return reader, m
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value of the data point carrying attr.
func sumFor(t *testing.T, m *metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer func() {
		otel.SetMeterProvider(original)
		_ = provider.Shutdown(context.Background())
	}()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEvaluation(t *testing.T) {
	reader, m := setupMetricsTest(t)
	ctx := context.Background()

	m.RecordEvaluation(ctx, "evaluate", 5*time.Millisecond, nil)
	m.RecordEvaluation(ctx, "evaluate", 3*time.Millisecond, nil)
	m.RecordEvaluation(ctx, "equation", time.Millisecond,
		calcerrors.New(calcerrors.KindUnsolvableEquation, "solve", "cubic"))

	rm := collectMetrics(t, reader)

	evals := findMetric(rm, "calcflow.evaluations")
	assert.Equal(t, int64(2), sumFor(t, evals, attribute.String("route", "evaluate")))
	assert.Equal(t, int64(1), sumFor(t, evals, attribute.String("route", "equation")))

	errs := findMetric(rm, "calcflow.errors")
	assert.Equal(t, int64(1), sumFor(t, errs, attribute.String("kind", "unsolvable_equation")))
	assert.Equal(t, int64(0), sumFor(t, errs, attribute.String("route", "evaluate")))

	latency := findMetric(rm, "calcflow.evaluation.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	require.NotEmpty(t, hist.DataPoints)
}

func TestRecordIntegration(t *testing.T) {
	reader, m := setupMetricsTest(t)

	m.RecordIntegration(context.Background(), 1001, 0)

	metric := findMetric(collectMetrics(t, reader), "calcflow.integration.samples")
	require.NotNil(t, metric)
	hist, ok := metric.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(1001), hist.DataPoints[0].Sum)
}

func TestRecordHistory(t *testing.T) {
	reader, m := setupMetricsTest(t)
	ctx := context.Background()

	m.RecordHistory(ctx, "append", nil)
	m.RecordHistory(ctx, "append", errors.New("closed"))

	metric := findMetric(collectMetrics(t, reader), "calcflow.history.operations")
	assert.Equal(t, int64(2), sumFor(t, metric, attribute.String("operation", "append")))
	assert.Equal(t, int64(1), sumFor(t, metric, attribute.Bool("success", false)))
}
