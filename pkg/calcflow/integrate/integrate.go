// Package integrate approximates definite integrals with the composite
// trapezoidal rule.
package integrate

import (
	"errors"
	"fmt"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
)

// DefaultSubintervals is the partition count used when none is configured.
const DefaultSubintervals = 1000

// ErrNoSamples is returned when singularity skipping discards every sample.
var ErrNoSamples = errors.New("no finite samples")

// Func is a real function sampled by the integrator.
type Func func(x float64) (float64, error)

// Report describes a finished integration.
type Report struct {
	Value        float64
	A, B         float64
	Subintervals int
	Samples      int
	Skipped      int
}

type options struct {
	subintervals int
	skip         bool
}

// Option configures Integrate and Expression.
type Option func(*options)

// WithSubintervals sets the partition count. Values below 1 are ignored.
func WithSubintervals(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.subintervals = n
		}
	}
}

// SkipSingularities drops samples that fail to evaluate or are not finite
// instead of aborting on the first one.
func SkipSingularities(skip bool) Option {
	return func(o *options) {
		o.skip = skip
	}
}

func buildOptions(opts []Option) options {
	o := options{subintervals: DefaultSubintervals}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Trapezoid integrates f over [a, b] with n subintervals, failing on the
// first sample error:
//
//	h = (b-a)/n
//	sum = 0.5*(f(a)+f(b)) + f(a+h) + ... + f(a+(n-1)h)
//	result = sum*h
func Trapezoid(f Func, a, b float64, n int) (float64, error) {
	r, err := Integrate(f, a, b, WithSubintervals(n))
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// Integrate runs the trapezoidal rule with options.
//
// With SkipSingularities, a skipped sample contributes nothing to the sum;
// the result is still scaled by h, so a removable singularity costs at most
// one h-width slice of accuracy.
func Integrate(f Func, a, b float64, opts ...Option) (*Report, error) {
	if !expr.IsFinite(a) || !expr.IsFinite(b) {
		return nil, calcerrors.New(calcerrors.KindInvalidIntegrationLimits, "integrate", "limits must be finite")
	}
	o := buildOptions(opts)
	n := o.subintervals
	h := (b - a) / float64(n)

	r := &Report{A: a, B: b, Subintervals: n}
	var sum float64

	for i := 0; i <= n; i++ {
		x := a + float64(i)*h
		if i == n {
			x = b
		}

		y, err := f(x)
		if err == nil && !expr.IsFinite(y) {
			err = fmt.Errorf("non-finite value %v at %v", y, x)
		}
		if err != nil {
			if !o.skip {
				return nil, wrapSampleErr(err, x)
			}
			r.Skipped++
			continue
		}

		r.Samples++
		if i == 0 || i == n {
			sum += 0.5 * y
		} else {
			sum += y
		}
	}

	if r.Samples == 0 {
		return nil, calcerrors.Wrap(ErrNoSamples, calcerrors.KindSyntax, "integrate", "every sample was skipped")
	}

	r.Value = sum * h
	return r, nil
}

// wrapSampleErr keeps evaluator errors intact so their kind reaches the
// caller, and classifies a bare non-finite sample as division by zero.
func wrapSampleErr(err error, x float64) error {
	var calcErr *calcerrors.Error
	if errors.As(err, &calcErr) {
		return err
	}
	return calcerrors.Wrap(err, calcerrors.KindDivisionByZero, "integrate", fmt.Sprintf("sample at %s", expr.Format(x)))
}

// Expression integrates the expression s in variable over [a, b] using ev.
// The expression is parsed once and evaluated at every sample.
func Expression(ev *expr.Evaluator, s, variable string, a, b float64, opts ...Option) (*Report, error) {
	if ev == nil {
		ev = expr.Default()
	}
	n, err := ev.Parse(s)
	if err != nil {
		return nil, err
	}

	bindings := expr.Bindings{variable: 0}
	f := func(x float64) (float64, error) {
		bindings[variable] = x
		return ev.EvalNode(n, bindings)
	}
	return Integrate(f, a, b, opts...)
}

// Describe renders the success suggestion for a report.
func (r *Report) Describe() string {
	return fmt.Sprintf("Numerical integration of ∫ from %s to %s with %d subdivisions",
		expr.Format(r.A), expr.Format(r.B), r.Subintervals)
}
