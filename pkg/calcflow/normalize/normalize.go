// Package normalize turns loosely typed calculator input into the canonical
// text form consumed by the parser.
//
// Normalization never fails. Input the parser cannot make sense of is left
// in place for the parser to reject with a proper diagnostic.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule is a single named rewrite step.
type Rule struct {
	Name  string
	Apply func(string) string
}

var (
	digitLetter = regexp.MustCompile(`(\d)([a-zA-Z])`)
	letterDigit = regexp.MustCompile(`([a-zA-Z])(\d)`)
)

var pipeline = []Rule{
	{Name: "strip_whitespace", Apply: stripWhitespace},
	{Name: "operator_glyphs", Apply: operatorGlyphs},
	{Name: "implicit_number_variable", Apply: implicitNumberVariable},
	{Name: "implicit_group", Apply: implicitGroup},
	{Name: "degree_markers", Apply: degreeMarkers},
	{Name: "lower_case", Apply: lowerASCII},
}

// Rules returns the default pipeline in application order.
// The returned slice is a copy.
func Rules() []Rule {
	out := make([]Rule, len(pipeline))
	copy(out, pipeline)
	return out
}

// Normalize applies the default pipeline to raw.
func Normalize(raw string) string {
	return Apply(raw, pipeline...)
}

// Apply runs the given rules over s in order.
func Apply(s string, rules ...Rule) string {
	for _, r := range rules {
		s = r.Apply(s)
	}
	return s
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func operatorGlyphs(s string) string {
	return strings.NewReplacer("×", "*", "÷", "/").Replace(s)
}

func implicitNumberVariable(s string) string {
	s = digitLetter.ReplaceAllString(s, "${1}*${2}")
	return letterDigit.ReplaceAllString(s, "${1}*${2}")
}

func implicitGroup(s string) string {
	return strings.ReplaceAll(s, ")(", ")*(")
}

// degreeMarkers expands deg() and rad(). An expansion is a parenthesis
// group, so joints it forms with neighbouring groups are made explicit here.
func degreeMarkers(s string) string {
	s = expandMarker(s, "deg(", "*pi/180")
	s = expandMarker(s, "rad(", "*180/pi")
	return implicitGroup(s)
}

// expandMarker rewrites every marker(E) as (E<suffix>). The argument extends
// to the parenthesis that balances the marker's own, so nested calls such as
// deg(asin(x)) stay intact. An unclosed marker is left for the parser.
func expandMarker(s, marker, suffix string) string {
	var b strings.Builder
	for {
		idx := indexFold(s, marker)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		open := idx + len(marker) - 1
		closing := matchParen(s, open)
		if closing < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString("(")
		// The argument may itself contain markers.
		b.WriteString(expandMarker(s[open+1:closing], marker, suffix))
		b.WriteString(suffix)
		b.WriteString(")")
		s = s[closing+1:]
	}
}

// indexFold is an ASCII case-insensitive strings.Index.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// lowerASCII folds only A-Z so non-ASCII letters cannot turn into ASCII
// ones after the implicit multiplication rules have already run.
func lowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// matchParen returns the index of the ')' balancing the '(' at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
