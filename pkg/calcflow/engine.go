package calcflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/calcflow/pkg/calcflow/config"
	"github.com/randalmurphal/calcflow/pkg/calcflow/derive"
	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
	"github.com/randalmurphal/calcflow/pkg/calcflow/history"
	"github.com/randalmurphal/calcflow/pkg/calcflow/integrate"
	"github.com/randalmurphal/calcflow/pkg/calcflow/normalize"
	"github.com/randalmurphal/calcflow/pkg/calcflow/observability"
	"github.com/randalmurphal/calcflow/pkg/calcflow/solve"
)

// Engine evaluates calculator input. It is safe for concurrent use.
//
// Each Engine owns one history session. Engines that share a store through
// WithHistoryStore keep separate histories unless given the same session ID.
type Engine struct {
	ev     *expr.Evaluator
	solver *solve.Solver
	differ *derive.Differentiator

	store     history.Store
	ownsStore bool
	session   string

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	subintervals int
	skipSingular bool

	mu         sync.RWMutex
	degreeMode bool
}

// New creates an Engine. Without WithHistoryStore, history lives in memory
// and is discarded with the engine.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	owns := false
	if cfg.store == nil {
		cfg.store = history.NewMemoryStore()
		owns = true
	}
	return build(cfg, owns)
}

// NewFromConfig creates an Engine from decoded settings. Options are
// applied after the settings and win over them. The history store named by
// the settings is opened only when no WithHistoryStore option is given;
// Close releases it.
func NewFromConfig(s config.Settings, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	cfg := defaultEngineConfig()
	cfg.degreeMode = s.DegreeMode
	cfg.subintervals = s.Integration.Subintervals
	cfg.skipSingular = s.Integration.SkipSingularities
	if s.Observability.Metrics {
		cfg.metrics = observability.NewMetricsRecorder()
	}
	if s.Observability.Tracing {
		cfg.spans = observability.NewSpanManager()
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	owns := false
	if cfg.store == nil {
		store, err := history.Open(s.History.Driver, s.History.Path, history.WithMaxEntries(s.History.MaxEntries))
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		cfg.store = store
		owns = true
	}
	return build(cfg, owns), nil
}

func build(cfg engineConfig, ownsStore bool) *Engine {
	session := cfg.sessionID
	if session == "" {
		session = uuid.NewString()
	}
	return &Engine{
		ev:           cfg.evaluator,
		solver:       solve.New(cfg.evaluator),
		differ:       derive.New(cfg.evaluator),
		store:        cfg.store,
		ownsStore:    ownsStore,
		session:      session,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		spans:        cfg.spans,
		subintervals: cfg.subintervals,
		skipSingular: cfg.skipSingular,
		degreeMode:   cfg.degreeMode,
	}
}

// Evaluate handles one line of input. It never panics and always returns a
// Result; failures are reported in Result.Error.
func (e *Engine) Evaluate(ctx context.Context, text string) Result {
	return e.EvaluateWith(ctx, text, nil)
}

// EvaluateWith is Evaluate with variable bindings for plain expressions.
func (e *Engine) EvaluateWith(ctx context.Context, text string, vars expr.Bindings) (res Result) {
	requestID := uuid.NewString()
	start := time.Now()
	ctx, span := e.spans.StartEvaluateSpan(ctx, e.session, requestID)
	observability.LogEvaluateStart(e.logger, requestID, text)

	route := RouteEvaluate
	var err error
	defer func() {
		if r := recover(); r != nil {
			observability.LogPanic(e.logger, requestID, r)
			err = calcerrors.Newf(calcerrors.KindSyntax, "evaluate", "internal error: %v", r)
			res = failure(text, route, err)
		}

		elapsed := time.Since(start)
		durationMs := float64(elapsed.Microseconds()) / 1000
		e.metrics.RecordEvaluation(ctx, string(route), elapsed, err)
		e.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogEvaluateError(e.logger, requestID, string(route), err, durationMs)
		} else {
			observability.LogEvaluateComplete(e.logger, requestID, string(route), durationMs, res.Result)
		}
	}()

	if strings.TrimSpace(text) == "" {
		err = errEmptyInput
		return failure(text, route, err)
	}

	normalized := normalize.Normalize(text)
	route = Classify(normalized)

	stageCtx, stage := e.spans.StartStageSpan(ctx, string(route))
	c := call{
		ctx:    stageCtx,
		route:  route,
		logger: observability.EnrichLogger(e.logger, requestID, string(route)),
	}
	res, err = e.dispatch(c, normalized, vars)
	e.spans.EndSpanWithError(stage, err)
	if err != nil {
		return failure(text, route, err)
	}
	res.Route = route
	return res
}

// call carries per-request state through the stages.
type call struct {
	ctx    context.Context
	route  Route
	logger *slog.Logger
}

func (e *Engine) dispatch(c call, normalized string, vars expr.Bindings) (Result, error) {
	switch c.route {
	case RouteDerivative:
		return e.derivative(normalized)
	case RouteIntegral:
		return e.integral(c, normalized)
	case RouteEquation:
		return e.equation(normalized)
	default:
		return e.plain(c, normalized, vars)
	}
}

func (e *Engine) derivative(normalized string) (Result, error) {
	args := SplitArgs(callArgs(normalized, "derivative"))
	if len(args) != 2 {
		return Result{}, errDerivativeUsage
	}
	n, err := e.differ.Derivative(args[0], args[1])
	if err != nil {
		return Result{}, err
	}
	return Result{Result: derive.String(n)}, nil
}

func (e *Engine) integral(c call, normalized string) (Result, error) {
	args := SplitArgs(callArgs(normalized, "integral"))
	if len(args) < 2 || len(args) > 4 {
		return Result{}, errIntegralUsage
	}
	if !expr.IsIdentifier(args[1]) {
		return Result{}, errIntegralUsage
	}
	if len(args) < 4 {
		return Result{}, calcerrors.New(calcerrors.KindMissingIntegrationLimits, "integrate", "both limits are required")
	}

	a, err := e.limit(args[2])
	if err != nil {
		return Result{}, err
	}
	b, err := e.limit(args[3])
	if err != nil {
		return Result{}, err
	}

	report, err := integrate.Expression(e.ev, args[0], args[1], a, b,
		integrate.WithSubintervals(e.subintervals),
		integrate.SkipSingularities(e.skipSingular),
	)
	if err != nil {
		if calcerrors.Is(err, calcerrors.KindDivisionByZero) {
			c.logger.Debug("integrand is singular on the interval", slog.String("error", err.Error()))
			e.spans.AddSpanEvent(c.ctx, "integration.singular", attribute.Int("subintervals", e.subintervals))
		}
		return Result{}, err
	}
	e.metrics.RecordIntegration(c.ctx, report.Samples, report.Skipped)

	res := Result{
		Result:     expr.Format(report.Value),
		Suggestion: report.Describe(),
	}
	if report.Skipped > 0 {
		c.logger.Debug("skipped singular samples", slog.Int("skipped", report.Skipped))
		e.spans.AddSpanEvent(c.ctx, "integration.skipped", attribute.Int("count", report.Skipped))
		res.Steps = []string{fmt.Sprintf("Skipped %d of %d samples that did not evaluate", report.Skipped, report.Samples)}
	}
	return res, nil
}

// limit evaluates an integration bound. Bounds may be expressions such as
// pi/2 but must not reference variables.
func (e *Engine) limit(s string) (float64, error) {
	if s == "" {
		return 0, calcerrors.New(calcerrors.KindInvalidIntegrationLimits, "integrate", "empty limit")
	}
	v, err := e.ev.Evaluate(s, nil)
	if err != nil {
		return 0, calcerrors.Wrap(err, calcerrors.KindInvalidIntegrationLimits, "integrate", fmt.Sprintf("limit %q", s))
	}
	if !expr.IsFinite(v) {
		return 0, calcerrors.Newf(calcerrors.KindInvalidIntegrationLimits, "integrate", "limit %q is not finite", s)
	}
	return v, nil
}

func (e *Engine) equation(normalized string) (Result, error) {
	sol, err := e.solver.Solve(normalized)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result:     sol.Result(),
		Steps:      sol.Steps,
		IsEquation: true,
		Roots:      sol.Roots,
	}, nil
}

func (e *Engine) plain(c call, normalized string, vars expr.Bindings) (Result, error) {
	suggestion := calcerrors.Suggest(normalized)

	v, err := e.ev.Evaluate(normalized, vars)
	if err != nil {
		return Result{}, err
	}
	if e.DegreeMode() && strings.Contains(normalized, "deg") {
		v, err = e.ev.Evaluate(strings.Replace(normalized, "deg", "rad", 1), vars)
		if err != nil {
			return Result{}, err
		}
	}

	formatted := expr.Format(v)
	e.appendHistory(c.ctx, normalized+" = "+formatted)
	return Result{Result: formatted, Suggestion: suggestion}, nil
}

// appendHistory records a successful evaluation. Store failures are logged
// and do not fail the evaluation.
func (e *Engine) appendHistory(ctx context.Context, entry string) {
	err := e.store.Append(e.session, entry)
	e.metrics.RecordHistory(ctx, "append", err)
	if err != nil {
		observability.LogHistoryError(e.logger, "append", err)
	}
}

// SetDegreeMode toggles degree mode.
func (e *Engine) SetDegreeMode(enabled bool) {
	e.mu.Lock()
	e.degreeMode = enabled
	e.mu.Unlock()
	observability.LogDegreeMode(e.logger, enabled)
}

// DegreeMode reports whether degree mode is on.
func (e *Engine) DegreeMode() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.degreeMode
}

// History returns a snapshot of this engine's successful plain evaluations,
// oldest first. A store failure is logged and yields an empty slice.
func (e *Engine) History() []string {
	entries, err := e.store.List(e.session)
	e.metrics.RecordHistory(context.Background(), "list", err)
	if err != nil {
		observability.LogHistoryError(e.logger, "list", err)
		return []string{}
	}
	return entries
}

// HistoryEntries is History with sequence numbers and timestamps.
func (e *Engine) HistoryEntries() ([]history.Entry, error) {
	entries, err := e.store.ListEntries(e.session)
	e.metrics.RecordHistory(context.Background(), "list", err)
	return entries, err
}

// ClearHistory empties this engine's history.
func (e *Engine) ClearHistory() error {
	err := e.store.Clear(e.session)
	e.metrics.RecordHistory(context.Background(), "clear", err)
	if err != nil {
		observability.LogHistoryError(e.logger, "clear", err)
	}
	return err
}

// SessionID returns the history session this engine writes to.
func (e *Engine) SessionID() string {
	return e.session
}

// Close releases the history store if the engine opened it.
func (e *Engine) Close() error {
	if !e.ownsStore {
		return nil
	}
	return e.store.Close()
}
