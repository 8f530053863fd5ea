package calcflow

import (
	"errors"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

// UsageError reports a derivative or integral request with the wrong
// number of arguments. It is diagnosed as a syntax error.
type UsageError struct {
	Msg     string
	Example string
}

func (e *UsageError) Error() string { return e.Msg }

var (
	errDerivativeUsage = &UsageError{
		Msg:     "Invalid derivative syntax. Use derivative(expression, variable)",
		Example: "Example: derivative(x^2, x)",
	}
	errIntegralUsage = &UsageError{
		Msg:     "Invalid integral syntax. Use integral(expression, variable, a?, b?)",
		Example: calcerrors.SuggestIntegralUsage,
	}

	errEmptyInput = calcerrors.New(calcerrors.KindSyntax, "evaluate", "empty expression")
)

func asUsage(err error) (*UsageError, bool) {
	var u *UsageError
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}
