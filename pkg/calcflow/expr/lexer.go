package expr

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// tokenize splits s into tokens. Whitespace is skipped so hand-written
// input also parses.
func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			seenDot := false
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' && !seenDot) {
				if s[i] == '.' {
					seenDot = true
				}
				i++
			}
			text := s[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, calcerrors.Newf(calcerrors.KindSyntax, "parse", "invalid number %q at position %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: v, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentPart(s[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: s[start:i], pos: start})
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			r, _ := utf8.DecodeRuneInString(s[i:])
			if unicode.IsLetter(r) {
				return nil, calcerrors.Newf(calcerrors.KindUnknownIdentifier, "parse", "undefined symbol %q at position %d", string(r), i)
			}
			return nil, calcerrors.Newf(calcerrors.KindSyntax, "parse", "unexpected character %q at position %d", string(r), i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(s)})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// IsIdentifier reports whether s is a valid variable or function name.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
