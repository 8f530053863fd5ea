package derive

import (
	"math"

	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
)

// Constructors below fold trivial identities while building derivative
// trees. Numeric folding is skipped when it would produce NaN or Inf so
// 1/0 stays visible in the output.

func num(v float64) expr.Node { return &expr.Num{Value: v} }

func call(name string, arg expr.Node) expr.Node {
	return &expr.Call{Func: name, Arg: arg}
}

func numValue(n expr.Node) (float64, bool) {
	if x, ok := n.(*expr.Num); ok {
		return x.Value, true
	}
	return 0, false
}

func isNum(n expr.Node, v float64) bool {
	x, ok := numValue(n)
	return ok && x == v
}

func foldNum(a, b expr.Node, op func(x, y float64) float64) (expr.Node, bool) {
	x, ok1 := numValue(a)
	y, ok2 := numValue(b)
	if !ok1 || !ok2 {
		return nil, false
	}
	r := op(x, y)
	if !expr.IsFinite(r) {
		return nil, false
	}
	return num(r), true
}

func neg(a expr.Node) expr.Node {
	if x, ok := numValue(a); ok {
		return num(-x)
	}
	if u, ok := a.(*expr.Unary); ok {
		return u.X
	}
	return &expr.Unary{X: a}
}

func add(a, b expr.Node) expr.Node {
	if n, ok := foldNum(a, b, func(x, y float64) float64 { return x + y }); ok {
		return n
	}
	switch {
	case isNum(a, 0):
		return b
	case isNum(b, 0):
		return a
	}
	if u, ok := b.(*expr.Unary); ok {
		return &expr.Binary{Op: '-', Left: a, Right: u.X}
	}
	return &expr.Binary{Op: '+', Left: a, Right: b}
}

func sub(a, b expr.Node) expr.Node {
	if n, ok := foldNum(a, b, func(x, y float64) float64 { return x - y }); ok {
		return n
	}
	switch {
	case isNum(b, 0):
		return a
	case isNum(a, 0):
		return neg(b)
	}
	if u, ok := b.(*expr.Unary); ok {
		return &expr.Binary{Op: '+', Left: a, Right: u.X}
	}
	return &expr.Binary{Op: '-', Left: a, Right: b}
}

func mul(a, b expr.Node) expr.Node {
	if n, ok := foldNum(a, b, func(x, y float64) float64 { return x * y }); ok {
		return n
	}
	switch {
	case isNum(a, 0), isNum(b, 0):
		return num(0)
	case isNum(a, 1):
		return b
	case isNum(b, 1):
		return a
	case isNum(a, -1):
		return neg(b)
	case isNum(b, -1):
		return neg(a)
	}
	// constant factor first: cos(2 * x) * 2 reads as 2 * cos(2 * x)
	if _, ok := numValue(b); ok {
		a, b = b, a
	}
	return &expr.Binary{Op: '*', Left: a, Right: b}
}

func div(a, b expr.Node) expr.Node {
	if n, ok := foldNum(a, b, func(x, y float64) float64 { return x / y }); ok {
		return n
	}
	switch {
	case isNum(b, 1):
		return a
	case isNum(a, 0) && !isNum(b, 0):
		return num(0)
	}
	return &expr.Binary{Op: '/', Left: a, Right: b}
}

func pow(a, b expr.Node) expr.Node {
	if n, ok := foldNum(a, b, math.Pow); ok {
		return n
	}
	switch {
	case isNum(b, 1):
		return a
	case isNum(b, 0):
		return num(1)
	}
	return &expr.Binary{Op: '^', Left: a, Right: b}
}
