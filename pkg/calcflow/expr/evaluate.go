package expr

import (
	"math"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// Evaluator parses and evaluates expressions with an extensible set of
// functions and constants. It is safe for concurrent use.
type Evaluator struct {
	funcs  *functionTable
	consts map[string]float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFunction registers a one-argument function.
// Registering a built-in name replaces it.
func WithFunction(name string, fn Func) Option {
	return func(e *Evaluator) {
		if name != "" && fn != nil {
			e.funcs.register(name, fn)
		}
	}
}

// WithConstant registers a named constant.
func WithConstant(name string, value float64) Option {
	return func(e *Evaluator) {
		if name != "" {
			e.consts[name] = value
		}
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		funcs:  newFunctionTable(),
		consts: defaultConstants(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = New()

// Default returns the shared evaluator with only built-ins registered.
func Default() *Evaluator { return defaultEvaluator }

// Eval is a convenience function that evaluates an expression using
// the default evaluator.
func Eval(s string, b Bindings) (float64, error) {
	return defaultEvaluator.Evaluate(s, b)
}

// Parse is a convenience function that parses with the default evaluator.
func Parse(s string) (Node, error) {
	return defaultEvaluator.Parse(s)
}

// Parse parses s into an expression tree.
func (e *Evaluator) Parse(s string) (Node, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, ev: e}
	return p.parse()
}

// Evaluate parses s and evaluates it against b.
func (e *Evaluator) Evaluate(s string, b Bindings) (float64, error) {
	n, err := e.Parse(s)
	if err != nil {
		return 0, err
	}
	return e.EvalNode(n, b)
}

// EvalNode evaluates an already parsed tree against b.
func (e *Evaluator) EvalNode(n Node, b Bindings) (float64, error) {
	switch v := n.(type) {
	case *Num:
		return v.Value, nil
	case *Const:
		return v.Value, nil
	case *Var:
		if val, ok := b.Lookup(v.Name); ok {
			return val, nil
		}
		if c, ok := e.constant(v.Name); ok {
			return c, nil
		}
		return 0, calcerrors.Newf(calcerrors.KindUnknownIdentifier, "evaluate", "undefined symbol %q", v.Name)
	case *Unary:
		x, err := e.EvalNode(v.X, b)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case *Binary:
		l, err := e.EvalNode(v.Left, b)
		if err != nil {
			return 0, err
		}
		r, err := e.EvalNode(v.Right, b)
		if err != nil {
			return 0, err
		}
		return apply(v.Op, l, r), nil
	case *Call:
		fn, ok := e.funcs.get(v.Func)
		if !ok {
			return 0, calcerrors.Newf(calcerrors.KindUnknownIdentifier, "evaluate", "undefined function %q", v.Func)
		}
		x, err := e.EvalNode(v.Arg, b)
		if err != nil {
			return 0, err
		}
		return fn(x), nil
	case nil:
		return 0, calcerrors.New(calcerrors.KindSyntax, "evaluate", "empty expression")
	default:
		return 0, calcerrors.Newf(calcerrors.KindSyntax, "evaluate", "unsupported node %T", n)
	}
}

// IsFunction reports whether name is a registered function.
func (e *Evaluator) IsFunction(name string) bool {
	return e.funcs.has(name)
}

// Functions returns the registered function names, sorted.
func (e *Evaluator) Functions() []string {
	return e.funcs.names()
}

func (e *Evaluator) constant(name string) (float64, bool) {
	v, ok := e.consts[name]
	return v, ok
}

func apply(op byte, l, r float64) float64 {
	switch op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '^':
		return math.Pow(l, r)
	}
	return math.NaN()
}
