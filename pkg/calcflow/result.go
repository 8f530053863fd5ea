package calcflow

import (
	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/solve"
)

// Result is the outcome of one Evaluate call. Exactly one of Result and
// Error is meaningful: on failure Result is empty.
type Result struct {
	Result     string       `json:"result"`
	Error      string       `json:"error,omitempty"`
	Kind       string       `json:"kind,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	Steps      []string     `json:"steps,omitempty"`
	IsEquation bool         `json:"is_equation,omitempty"`
	Roots      []solve.Root `json:"roots,omitempty"`
	Route      Route        `json:"route,omitempty"`
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

// failure builds the Result for err raised while handling raw input.
func failure(raw string, route Route, err error) Result {
	d := calcerrors.Diagnose(raw, err)
	if u, ok := asUsage(err); ok && d.Kind == calcerrors.KindSyntax {
		d.Message, d.Suggestion = u.Msg, u.Example
	}
	return Result{
		Error:      d.Message,
		Kind:       d.Kind.String(),
		Suggestion: d.Suggestion,
		Route:      route,
	}
}
