package calcflow

import (
	"strings"

	"github.com/randalmurphal/calcflow/pkg/calcflow/solve"
)

// Route names the stage a normalized input is dispatched to.
type Route string

// Routes in dispatch priority order.
const (
	RouteDerivative Route = "derivative"
	RouteIntegral   Route = "integral"
	RouteEquation   Route = "equation"
	RouteEvaluate   Route = "evaluate"
)

// Classify picks the route for normalized text. Derivative and integral
// requests must span the whole input; equations need both '=' and x.
func Classify(normalized string) Route {
	switch {
	case isCall(normalized, "derivative"):
		return RouteDerivative
	case isCall(normalized, "integral"):
		return RouteIntegral
	case solve.IsEquation(normalized):
		return RouteEquation
	default:
		return RouteEvaluate
	}
}

func isCall(s, name string) bool {
	return strings.HasPrefix(s, name+"(") && strings.HasSuffix(s, ")")
}

// callArgs returns the text between name( and the final ')'.
func callArgs(s, name string) string {
	return s[len(name)+1 : len(s)-1]
}

// SplitArgs splits s on commas that are not nested inside parentheses.
// Each argument is trimmed of surrounding spaces.
func SplitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}
