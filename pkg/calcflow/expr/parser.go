package expr

import (
	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// parser is a recursive-descent parser over a token slice.
type parser struct {
	toks  []token
	pos   int
	depth int
	ev    *Evaluator
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parse() (Node, error) {
	if p.peek().kind == tokEOF {
		return nil, calcerrors.New(calcerrors.KindSyntax, "parse", "empty expression")
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch t := p.peek(); t.kind {
	case tokEOF:
		return n, nil
	case tokRParen:
		return nil, calcerrors.Newf(calcerrors.KindUnbalancedParentheses, "parse", "unexpected ')' at position %d", t.pos)
	default:
		return nil, calcerrors.Newf(calcerrors.KindSyntax, "parse", "unexpected token %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text[0], Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.text[0], Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			return x, nil
		}
		return &Unary{X: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokOp || t.text != "^" {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', Left: base, Right: exp}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Num{Value: t.num}, nil
	case tokIdent:
		return p.parseIdent(t)
	case tokLParen:
		return p.parseGroup(t)
	case tokEOF:
		return nil, calcerrors.New(calcerrors.KindSyntax, "parse", "unexpected end of expression")
	case tokRParen:
		return nil, calcerrors.Newf(calcerrors.KindSyntax, "parse", "unexpected ')' at position %d", t.pos)
	default:
		return nil, calcerrors.Newf(calcerrors.KindSyntax, "parse", "unexpected operator %q at position %d", t.text, t.pos)
	}
}

func (p *parser) parseGroup(open token) (Node, error) {
	p.depth++
	if p.depth > maxDepth {
		return nil, calcerrors.New(calcerrors.KindSyntax, "parse", "expression nested too deeply")
	}
	defer func() { p.depth-- }()

	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRParen {
		return nil, calcerrors.Newf(calcerrors.KindUnbalancedParentheses, "parse", "missing ')' for '(' at position %d", open.pos)
	}
	p.next()
	return inner, nil
}

func (p *parser) parseIdent(t token) (Node, error) {
	name := t.text
	followedByParen := p.peek().kind == tokLParen

	if p.ev.funcs.has(name) {
		if !followedByParen {
			return nil, calcerrors.Newf(calcerrors.KindFunctionMissingParentheses, "parse", "function %s needs parentheses", name)
		}
		open := p.next()
		arg, err := p.parseGroup(open)
		if err != nil {
			return nil, err
		}
		return &Call{Func: name, Arg: arg}, nil
	}

	if followedByParen {
		return nil, calcerrors.Newf(calcerrors.KindUnknownIdentifier, "parse", "undefined function %q", name)
	}
	if v, ok := p.ev.constant(name); ok {
		return &Const{Name: name, Value: v}, nil
	}
	return &Var{Name: name}, nil
}

// maxDepth bounds parenthesis nesting so hostile input cannot exhaust the stack.
const maxDepth = 256
