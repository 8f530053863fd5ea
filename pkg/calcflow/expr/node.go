package expr

import (
	"strconv"
)

// Precedence describes how tightly a node binds when printed.
type Precedence int

const (
	PrecAdd Precedence = iota
	PrecMul
	PrecNeg
	PrecPow
	PrecAtom
)

// Node is an expression tree node.
type Node interface {
	// Precedence returns the loosest operator holding the node together.
	Precedence() Precedence

	// String returns canonical text that parses back to an equal tree.
	String() string
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

// Var is a reference to a bound variable.
type Var struct {
	Name string
}

// Const is a named constant such as pi.
type Const struct {
	Name  string
	Value float64
}

// Unary is a prefix negation.
type Unary struct {
	X Node
}

// Binary applies one of + - * / ^ to two operands.
type Binary struct {
	Op    byte
	Left  Node
	Right Node
}

// Call applies a named one-argument function.
type Call struct {
	Func string
	Arg  Node
}

func (n *Num) Precedence() Precedence {
	if n.Value < 0 {
		return PrecNeg
	}
	return PrecAtom
}

func (n *Num) String() string {
	v := n.Value
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (v *Var) Precedence() Precedence { return PrecAtom }
func (v *Var) String() string         { return v.Name }

func (c *Const) Precedence() Precedence { return PrecAtom }
func (c *Const) String() string         { return c.Name }

func (u *Unary) Precedence() Precedence { return PrecNeg }

func (u *Unary) String() string {
	inner := u.X.String()
	if u.X.Precedence() < PrecNeg {
		inner = "(" + inner + ")"
	}
	return "-" + inner
}

func (b *Binary) Precedence() Precedence {
	return opPrecedence(b.Op)
}

func (b *Binary) String() string {
	p := b.Precedence()

	left := b.Left.String()
	lp := b.Left.Precedence()
	if lp < p || (b.Op == '^' && lp <= p) {
		left = "(" + left + ")"
	}

	right := b.Right.String()
	rp := b.Right.Precedence()
	if rp < p || (rp == p && (b.Op == '-' || b.Op == '/')) {
		right = "(" + right + ")"
	}

	return left + " " + string(b.Op) + " " + right
}

func (c *Call) Precedence() Precedence { return PrecAtom }
func (c *Call) String() string         { return c.Func + "(" + c.Arg.String() + ")" }

func opPrecedence(op byte) Precedence {
	switch op {
	case '+', '-':
		return PrecAdd
	case '*', '/':
		return PrecMul
	default:
		return PrecPow
	}
}

// Walk calls fn for n and every descendant in depth-first order.
// If fn returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Unary:
		Walk(v.X, fn)
	case *Binary:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	case *Call:
		Walk(v.Arg, fn)
	}
}

// HasVar reports whether n references the variable name.
func HasVar(n Node, name string) bool {
	found := false
	Walk(n, func(c Node) bool {
		if v, ok := c.(*Var); ok && v.Name == name {
			found = true
		}
		return !found
	})
	return found
}
