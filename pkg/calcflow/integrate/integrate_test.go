package integrate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
	"github.com/randalmurphal/calcflow/pkg/calcflow/integrate"
)

func TestExpression_KnownIntegrals(t *testing.T) {
	tests := []struct {
		name string
		expr string
		a, b float64
		want float64
	}{
		{"square on unit interval", "x^2", 0, 1, 1.0 / 3.0},
		{"sine over half period", "sin(x)", 0, math.Pi, 2},
		{"constant", "3", 0, 2, 6},
		{"linear", "2*x+1", 1, 3, 10},
		{"reversed limits", "x^2", 1, 0, -1.0 / 3.0},
		{"empty interval", "x^2", 2, 2, 0},
		{"exponential", "e^x", 0, 1, math.E - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := integrate.Expression(nil, tt.expr, "x", tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, r.Value, 1e-3)
			assert.Equal(t, integrate.DefaultSubintervals, r.Subintervals)
			assert.Equal(t, integrate.DefaultSubintervals+1, r.Samples)
			assert.Zero(t, r.Skipped)
		})
	}
}

func TestTrapezoid_ExactForLinear(t *testing.T) {
	f := func(x float64) (float64, error) { return 4*x - 1, nil }
	got, err := integrate.Trapezoid(f, 0, 2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6, got, 1e-12)
}

func TestTrapezoid_Formula(t *testing.T) {
	// n = 2 on [0, 2] samples 0, 1, 2: (0.5*0 + 1 + 0.5*4) * 1 = 3
	f := func(x float64) (float64, error) { return x * x, nil }
	got, err := integrate.Trapezoid(f, 0, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3, got, 1e-12)
}

func TestIntegrate_FailFastOnSingularity(t *testing.T) {
	_, err := integrate.Expression(nil, "1/x", "x", -2, 2, integrate.WithSubintervals(4))
	require.Error(t, err)
	assert.Equal(t, calcerrors.KindDivisionByZero, calcerrors.KindOf(err))
}

func TestIntegrate_SkipSingularities(t *testing.T) {
	r, err := integrate.Expression(nil, "1/x", "x", -2, 2,
		integrate.WithSubintervals(4),
		integrate.SkipSingularities(true),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0, r.Value, 1e-12)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 4, r.Samples)
}

func TestIntegrate_SampleErrorKeepsKind(t *testing.T) {
	_, err := integrate.Expression(nil, "x+y", "x", 0, 1)
	require.Error(t, err)
	assert.Equal(t, calcerrors.KindUnknownIdentifier, calcerrors.KindOf(err))
}

func TestIntegrate_FirstErrorWins(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	f := func(x float64) (float64, error) {
		calls++
		if x > 0.5 {
			return 0, sentinel
		}
		return x, nil
	}
	_, err := integrate.Integrate(f, 0, 1, integrate.WithSubintervals(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 7, calls)
}

func TestIntegrate_AllSamplesSkipped(t *testing.T) {
	_, err := integrate.Expression(nil, "sqrt(x)", "x", -3, -1, integrate.SkipSingularities(true))
	assert.ErrorIs(t, err, integrate.ErrNoSamples)
}

func TestIntegrate_InvalidLimits(t *testing.T) {
	f := func(x float64) (float64, error) { return x, nil }
	for _, lim := range [][2]float64{{math.NaN(), 1}, {0, math.Inf(1)}} {
		_, err := integrate.Integrate(f, lim[0], lim[1])
		require.Error(t, err)
		assert.Equal(t, calcerrors.KindInvalidIntegrationLimits, calcerrors.KindOf(err))
	}
}

func TestIntegrate_ParseError(t *testing.T) {
	_, err := integrate.Expression(nil, "(x^2", "x", 0, 1)
	require.Error(t, err)
	assert.Equal(t, calcerrors.KindUnbalancedParentheses, calcerrors.KindOf(err))
}

func TestExpression_CustomEvaluator(t *testing.T) {
	ev := expr.New(expr.WithFunction("double", func(v float64) float64 { return 2 * v }))
	r, err := integrate.Expression(ev, "double(t)", "t", 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Value, 1e-9)
}

func TestWithSubintervals_IgnoresNonPositive(t *testing.T) {
	r, err := integrate.Expression(nil, "x", "x", 0, 1, integrate.WithSubintervals(0))
	require.NoError(t, err)
	assert.Equal(t, integrate.DefaultSubintervals, r.Subintervals)
}

func TestReport_Describe(t *testing.T) {
	r, err := integrate.Expression(nil, "x^2", "x", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "Numerical integration of ∫ from 0 to 1 with 1000 subdivisions", r.Describe())
}
