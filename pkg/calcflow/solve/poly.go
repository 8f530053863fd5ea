package solve

import (
	"errors"
	"fmt"
	"math"

	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
)

// ErrNotPolynomial indicates an expression that cannot be expanded into a
// polynomial in the solve variable.
var ErrNotPolynomial = errors.New("not a polynomial")

// maxExpansionDegree bounds intermediate degrees during expansion so terms
// that cancel (x^3 - x^3) still collect, while x^1000 is rejected early.
const maxExpansionDegree = 8

// Poly holds polynomial coefficients indexed by degree.
type Poly []float64

// Degree returns the index of the highest non-zero coefficient, or -1 for
// the zero polynomial.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// Coeff returns the coefficient of x^deg, 0 when absent.
func (p Poly) Coeff(deg int) float64 {
	if deg < 0 || deg >= len(p) {
		return 0
	}
	return p[deg]
}

func constPoly(v float64) Poly { return Poly{v} }

func addPoly(a, b Poly, sign float64) Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Poly, n)
	for i := range out {
		out[i] = a.Coeff(i) + sign*b.Coeff(i)
	}
	return out
}

func scalePoly(a Poly, k float64) Poly {
	out := make(Poly, len(a))
	for i, c := range a {
		out[i] = c * k
	}
	return out
}

func mulPoly(a, b Poly) (Poly, error) {
	da, db := a.Degree(), b.Degree()
	if da < 0 || db < 0 {
		return Poly{0}, nil
	}
	if da+db > maxExpansionDegree {
		return nil, fmt.Errorf("%w: degree %d exceeds %d", ErrNotPolynomial, da+db, maxExpansionDegree)
	}
	out := make(Poly, da+db+1)
	for i := 0; i <= da; i++ {
		for j := 0; j <= db; j++ {
			out[i+j] += a[i] * b[j]
		}
	}
	return out, nil
}

// Collect expands n into a polynomial in variable. Sub-trees that do not
// mention the variable are evaluated numerically with ev.
func Collect(ev *expr.Evaluator, n expr.Node, variable string) (Poly, error) {
	c := collector{ev: ev, variable: variable}
	return c.collect(n)
}

type collector struct {
	ev       *expr.Evaluator
	variable string
}

func (c collector) collect(n expr.Node) (Poly, error) {
	if !expr.HasVar(n, c.variable) {
		v, err := c.ev.EvalNode(n, nil)
		if err != nil {
			return nil, err
		}
		if !expr.IsFinite(v) {
			return nil, fmt.Errorf("%w: non-finite constant term %s", ErrNotPolynomial, n)
		}
		return constPoly(v), nil
	}

	switch v := n.(type) {
	case *expr.Var:
		return Poly{0, 1}, nil
	case *expr.Unary:
		p, err := c.collect(v.X)
		if err != nil {
			return nil, err
		}
		return scalePoly(p, -1), nil
	case *expr.Binary:
		return c.collectBinary(v)
	case *expr.Call:
		return nil, fmt.Errorf("%w: %s(...) of %s", ErrNotPolynomial, v.Func, c.variable)
	}
	return nil, fmt.Errorf("%w: unsupported term %s", ErrNotPolynomial, n)
}

func (c collector) collectBinary(b *expr.Binary) (Poly, error) {
	left, err := c.collect(b.Left)
	if err != nil {
		return nil, err
	}

	if b.Op == '^' {
		return c.collectPower(left, b.Right)
	}

	right, err := c.collect(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case '+':
		return addPoly(left, right, 1), nil
	case '-':
		return addPoly(left, right, -1), nil
	case '*':
		return mulPoly(left, right)
	case '/':
		if right.Degree() > 0 {
			return nil, fmt.Errorf("%w: %s in a denominator", ErrNotPolynomial, c.variable)
		}
		d := right.Coeff(0)
		if d == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrNotPolynomial)
		}
		return scalePoly(left, 1/d), nil
	}
	return nil, fmt.Errorf("%w: operator %q", ErrNotPolynomial, b.Op)
}

func (c collector) collectPower(base Poly, expNode expr.Node) (Poly, error) {
	if expr.HasVar(expNode, c.variable) {
		return nil, fmt.Errorf("%w: %s in an exponent", ErrNotPolynomial, c.variable)
	}
	e, err := c.ev.EvalNode(expNode, nil)
	if err != nil {
		return nil, err
	}
	if e < 0 || e != math.Trunc(e) || e > maxExpansionDegree {
		return nil, fmt.Errorf("%w: exponent %v", ErrNotPolynomial, e)
	}
	out := constPoly(1)
	for i := 0; i < int(e); i++ {
		if out, err = mulPoly(out, base); err != nil {
			return nil, err
		}
	}
	return out, nil
}
