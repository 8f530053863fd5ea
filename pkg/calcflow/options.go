package calcflow

import (
	"log/slog"

	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
	"github.com/randalmurphal/calcflow/pkg/calcflow/history"
	"github.com/randalmurphal/calcflow/pkg/calcflow/integrate"
	"github.com/randalmurphal/calcflow/pkg/calcflow/observability"
)

// engineConfig holds the values options can set before an Engine is built.
type engineConfig struct {
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	store        history.Store
	evaluator    *expr.Evaluator
	subintervals int
	skipSingular bool
	degreeMode   bool
	sessionID    string
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger:       observability.Nop(),
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
		evaluator:    expr.Default(),
		subintervals: integrate.DefaultSubintervals,
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the structured logger. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Default: NoopMetrics.
//
// Example:
//
//	engine := calcflow.New(calcflow.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the span manager. Default: NoopSpanManager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *engineConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithHistoryStore sets the history backend. The caller keeps ownership:
// Engine.Close does not close a store passed here.
func WithHistoryStore(s history.Store) Option {
	return func(c *engineConfig) {
		c.store = s
	}
}

// WithEvaluator sets the evaluator used by every stage, e.g. one with
// extra functions registered.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(c *engineConfig) {
		if ev != nil {
			c.evaluator = ev
		}
	}
}

// WithSubintervals sets the trapezoid partition count. Default: 1000.
func WithSubintervals(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.subintervals = n
		}
	}
}

// WithSkipSingularities makes integration skip samples that fail to
// evaluate instead of failing the whole integral.
func WithSkipSingularities(skip bool) Option {
	return func(c *engineConfig) {
		c.skipSingular = skip
	}
}

// WithDegreeMode sets the initial degree mode.
func WithDegreeMode(enabled bool) Option {
	return func(c *engineConfig) {
		c.degreeMode = enabled
	}
}

// WithSessionID sets the history session. Default: a random UUID, so
// engines sharing a store never see each other's history.
func WithSessionID(id string) Option {
	return func(c *engineConfig) {
		c.sessionID = id
	}
}
