package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Diagnosis is the user-facing view of a failure.
type Diagnosis struct {
	Kind       Kind
	Message    string
	Suggestion string
}

// Suggestion texts shared by the engine and the CLI.
const (
	SuggestFunctionParens = "Use sin(x), cos(x), tan(x), log(x), or sqrt(x) with parentheses around the argument"
	SuggestUnknown        = "Unknown function or variable. Try: sin, cos, tan, log, sqrt"
	SuggestOperators      = "Check for missing operators or parentheses"
	SuggestDivision       = "Division by zero is undefined"
	SuggestGeneric        = "Check your syntax and try again"
	SuggestSimplerForms   = "Try linear equations like '2x + 3 = 7' or quadratic like 'x^2 - 5x + 6 = 0'"
	SuggestIntegralUsage  = "Example: integral(x^2, x, 0, 1)"
)

// Canonical messages for kinds whose text does not depend on the input.
const (
	MsgUnbalanced       = "Unbalanced parentheses"
	MsgFunctionParens   = "Functions need parentheses"
	MsgSyntax           = "Syntax Error"
	MsgUnknown          = "Unknown identifier"
	MsgDivision         = "Division by zero"
	MsgUnsolvable       = "Complex equation - try simpler expressions"
	MsgMissingLimits    = "Integration limits are required. Use integral(expression, variable, a, b)"
	MsgInvalidLimits    = "Invalid integration limits. Please provide numeric values for a and b."
	MsgUnsolvableResult = "Unable to solve"
)

// bareFunction matches a known function name as a whole word. Go's regexp
// has no lookahead, so the "not followed by '('" half is checked by hand.
var bareFunction = regexp.MustCompile(`\b(sin|cos|tan|log|sqrt)\b`)

// Diagnose maps the raw (un-normalized) input and the failure into a
// Diagnosis. Structural problems in the raw text win over the error's own
// kind, because a missing bracket usually surfaces as some other parse
// error downstream.
func Diagnose(raw string, err error) Diagnosis {
	kind := KindOf(err)

	switch kind {
	case KindUnsolvableEquation:
		return Diagnosis{Kind: kind, Message: MsgUnsolvable, Suggestion: SuggestSimplerForms}
	case KindMissingIntegrationLimits:
		return Diagnosis{Kind: kind, Message: MsgMissingLimits, Suggestion: SuggestIntegralUsage}
	case KindInvalidIntegrationLimits:
		return Diagnosis{Kind: kind, Message: MsgInvalidLimits}
	}

	if diff := ParenBalance(raw); diff != 0 {
		return Diagnosis{
			Kind:       KindUnbalancedParentheses,
			Message:    MsgUnbalanced,
			Suggestion: missingBrackets(diff),
		}
	}

	if HasBareFunction(raw) {
		return Diagnosis{
			Kind:       KindFunctionMissingParentheses,
			Message:    MsgFunctionParens,
			Suggestion: SuggestFunctionParens,
		}
	}

	var calcErr *Error
	structured := errors.As(err, &calcErr)

	switch {
	case kind == KindUnknownIdentifier:
		return Diagnosis{Kind: kind, Message: MsgUnknown, Suggestion: SuggestUnknown}
	case kind == KindFunctionMissingParentheses:
		return Diagnosis{Kind: kind, Message: MsgFunctionParens, Suggestion: SuggestFunctionParens}
	case kind == KindDivisionByZero || strings.Contains(raw, "/0"):
		return Diagnosis{Kind: KindDivisionByZero, Message: MsgDivision, Suggestion: SuggestDivision}
	case structured && kind == KindSyntax:
		return Diagnosis{Kind: KindSyntax, Message: MsgSyntax, Suggestion: SuggestOperators}
	}

	return Diagnosis{Kind: KindSyntax, Message: MsgSyntax, Suggestion: SuggestGeneric}
}

// ParenBalance returns the count of '(' minus the count of ')'.
func ParenBalance(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}

// HasBareFunction reports whether s names a known function without an
// opening parenthesis directly after it.
func HasBareFunction(s string) bool {
	for _, loc := range bareFunction.FindAllStringIndex(s, -1) {
		if loc[1] >= len(s) || s[loc[1]] != '(' {
			return true
		}
	}
	return false
}

func missingBrackets(diff int) string {
	if diff > 0 {
		return fmt.Sprintf("Missing %d closing bracket%s ')'", diff, plural(diff))
	}
	diff = -diff
	return fmt.Sprintf("Missing %d opening bracket%s '('", diff, plural(diff))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
