/*
Package expr parses and evaluates arithmetic expressions over float64.

# Overview

expr implements the numeric core of calcflow: a lexer, a recursive-descent
parser producing a small AST, and an evaluator that walks the AST against a
set of variable bindings. Input is expected to be normalized first (see
package normalize), but the parser does not rely on it beyond the absence of
implicit multiplication.

# Expression Syntax

	<expr>    := <term> { ('+' | '-') <term> }
	<term>    := <unary> { ('*' | '/') <unary> }
	<unary>   := ('-' | '+') <unary> | <power>
	<power>   := <primary> [ '^' <unary> ]
	<primary> := number | constant | variable | name '(' <expr> ')' | '(' <expr> ')'

Exponentiation is right associative and binds tighter than unary minus, so
-2^2 is -4 and 2^3^2 is 512.

# Built-ins

Functions:

	sin, cos, tan   radians
	log             natural logarithm
	sqrt            principal square root (NaN for negative input)

Constants:

	pi, e

# Examples

	v, err := expr.Eval("2*(3+5)", nil)                      // 16
	v, err = expr.Eval("x^2+1", expr.Bindings{"x": 3})       // 10

Parse once, evaluate many times:

	ev := expr.New()
	node, err := ev.Parse("sin(x)")
	for _, x := range samples {
	    y, err := ev.EvalNode(node, expr.Bindings{"x": x})
	    ...
	}

# Custom Functions

	ev := expr.New(
	    expr.WithFunction("abs", math.Abs),
	    expr.WithConstant("tau", 2*math.Pi),
	)
	v, _ := ev.Evaluate("abs(-tau)", nil)

# Errors

Every failure is a *errors.Error from package calcflow/errors carrying a
Kind: unbalanced parentheses, unknown identifier (function, constant or
unbound variable), function used without parentheses, or a generic syntax
error. Division by zero follows IEEE semantics and is not an error here.
*/
package expr
