package expr

import (
	"math"
	"strconv"
	"strings"
)

// Bindings maps variable names to values.
type Bindings map[string]float64

// Lookup returns the value bound to name. A nil Bindings has no entries.
func (b Bindings) Lookup(name string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	v, ok := b[name]
	return v, ok
}

// With returns a copy of b with name bound to v.
func (b Bindings) With(name string, v float64) Bindings {
	out := make(Bindings, len(b)+1)
	for k, val := range b {
		out[k] = val
	}
	out[name] = v
	return out
}

// integerTolerance is how close a value must be to an integer to print as one.
const integerTolerance = 1e-10

// Format renders a result for display: near-integers print without a
// fraction, everything else with at most 8 decimals and no trailing zeros.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	if r := math.Round(v); math.Abs(v-r) < integerTolerance {
		if r == 0 {
			r = 0 // drop negative zero
		}
		return strconv.FormatFloat(r, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
