package errors

import (
	"regexp"
	"strings"
)

var trigFunction = regexp.MustCompile(`sin|cos|tan`)

// Suggest returns an advisory hint for an expression that evaluated
// successfully, or "" when nothing applies. The first matching rule wins.
func Suggest(expr string) string {
	hasX := strings.Contains(expr, "x")

	switch {
	case hasX && !strings.Contains(expr, "="):
		return "Add '= 0' to solve for x, or '= y' to define a function"
	case hasX && strings.Contains(expr, "^"):
		return "Try graphing this function to visualize the curve"
	case trigFunction.MatchString(expr):
		return "Trigonometric functions use radians. Use deg() for degrees"
	case strings.Contains(expr, "sqrt") || strings.Contains(expr, "^0.5"):
		return "Remember: √(x²) = |x| for real numbers"
	}
	return ""
}
