// Package derive computes symbolic derivatives over expr trees.
//
// Supported rules: constants, variables, sums and differences, products,
// quotients, powers (constant exponent, constant base and the general
// u^v form) and the chain rule for sin, cos, tan, log and sqrt. Results
// are lightly folded (0*u, 1*u, u+0, u^1, numeric literals) but not
// otherwise simplified.
//
// Example:
//
//	n, _ := derive.Derivative("x^2 + sin(x)", "x")
//	derive.String(n) // "2 * x + cos(x)"
package derive

import (
	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
)

// Differentiator parses with an Evaluator's function and constant tables
// and differentiates the result.
type Differentiator struct {
	ev *expr.Evaluator
}

// New creates a Differentiator. A nil evaluator uses expr.Default().
func New(ev *expr.Evaluator) *Differentiator {
	if ev == nil {
		ev = expr.Default()
	}
	return &Differentiator{ev: ev}
}

// Derivative parses s with the default evaluator and differentiates it
// with respect to variable.
func Derivative(s, variable string) (expr.Node, error) {
	return New(nil).Derivative(s, variable)
}

// String renders a derivative tree.
func String(n expr.Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// Derivative parses s and differentiates it with respect to variable.
func (d *Differentiator) Derivative(s, variable string) (expr.Node, error) {
	if !expr.IsIdentifier(variable) {
		return nil, calcerrors.Newf(calcerrors.KindSyntax, "derivative", "invalid variable %q", variable)
	}
	n, err := d.ev.Parse(s)
	if err != nil {
		return nil, err
	}
	return Node(n, variable)
}

// Node differentiates an already parsed tree.
func Node(n expr.Node, variable string) (expr.Node, error) {
	if !expr.IsIdentifier(variable) {
		return nil, calcerrors.Newf(calcerrors.KindSyntax, "derivative", "invalid variable %q", variable)
	}
	return diff(n, variable)
}

func diff(n expr.Node, v string) (expr.Node, error) {
	if !expr.HasVar(n, v) {
		return num(0), nil
	}

	switch t := n.(type) {
	case *expr.Var:
		return num(1), nil
	case *expr.Unary:
		dx, err := diff(t.X, v)
		if err != nil {
			return nil, err
		}
		return neg(dx), nil
	case *expr.Binary:
		return diffBinary(t, v)
	case *expr.Call:
		return diffCall(t, v)
	}
	return nil, calcerrors.Newf(calcerrors.KindSyntax, "derivative", "unsupported node %T", n)
}

func diffBinary(b *expr.Binary, v string) (expr.Node, error) {
	dl, err := diff(b.Left, v)
	if err != nil {
		return nil, err
	}
	dr, err := diff(b.Right, v)
	if err != nil {
		return nil, err
	}
	lv, rv := expr.HasVar(b.Left, v), expr.HasVar(b.Right, v)

	switch b.Op {
	case '+':
		return add(dl, dr), nil
	case '-':
		return sub(dl, dr), nil
	case '*':
		switch {
		case !lv:
			return mul(b.Left, dr), nil
		case !rv:
			return mul(dl, b.Right), nil
		}
		return add(mul(dl, b.Right), mul(b.Left, dr)), nil
	case '/':
		if !rv {
			return div(dl, b.Right), nil
		}
		top := sub(mul(dl, b.Right), mul(b.Left, dr))
		return div(top, pow(b.Right, num(2))), nil
	case '^':
		switch {
		case !rv:
			// d(u^c) = c * u^(c-1) * u'
			return mul(mul(b.Right, pow(b.Left, sub(b.Right, num(1)))), dl), nil
		case !lv:
			// d(c^u) = c^u * log(c) * u'
			return mul(mul(b, call("log", b.Left)), dr), nil
		}
		// d(u^w) = u^w * (w' * log(u) + w * u' / u)
		inner := add(mul(dr, call("log", b.Left)), div(mul(b.Right, dl), b.Left))
		return mul(b, inner), nil
	}
	return nil, calcerrors.Newf(calcerrors.KindSyntax, "derivative", "unsupported operator %q", b.Op)
}

func diffCall(c *expr.Call, v string) (expr.Node, error) {
	du, err := diff(c.Arg, v)
	if err != nil {
		return nil, err
	}
	u := c.Arg

	switch c.Func {
	case "sin":
		return mul(call("cos", u), du), nil
	case "cos":
		return neg(mul(call("sin", u), du)), nil
	case "tan":
		return div(du, pow(call("cos", u), num(2))), nil
	case "log":
		return div(du, u), nil
	case "sqrt":
		return div(du, mul(num(2), call("sqrt", u))), nil
	}
	return nil, calcerrors.Newf(calcerrors.KindUnknownIdentifier, "derivative", "no derivative rule for %q", c.Func)
}
