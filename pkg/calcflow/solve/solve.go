// Package solve finds the roots of linear and quadratic equations in x.
//
// Coefficients come from expanding the parsed equation into a polynomial,
// so term order and spelling (3x^2, x^2*3, x*x*3) do not matter.
package solve

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
)

// Variable is the unknown every equation is solved for.
const Variable = "x"

// Degree is the textual classification of an equation.
type Degree int

const (
	DegreeNone Degree = iota
	DegreeLinear
	DegreeQuadratic
)

// String returns the degree name.
func (d Degree) String() string {
	switch d {
	case DegreeLinear:
		return "linear"
	case DegreeQuadratic:
		return "quadratic"
	default:
		return "none"
	}
}

// Classify applies the textual rule: quadratic if the text contains x^2 or
// x*x, linear if it contains x, otherwise none.
func Classify(text string) Degree {
	switch {
	case strings.Contains(text, "x^2") || strings.Contains(text, "x*x"):
		return DegreeQuadratic
	case strings.Contains(text, Variable):
		return DegreeLinear
	default:
		return DegreeNone
	}
}

// IsEquation reports whether normalized text should be routed to the solver.
func IsEquation(text string) bool {
	return strings.Contains(text, "=") && strings.Contains(text, Variable)
}

// Root is a real or complex root.
type Root struct {
	Re float64
	Im float64
}

// IsReal reports whether the root has no imaginary part.
func (r Root) IsReal() bool { return r.Im == 0 }

// String renders real roots as numbers and complex roots as "(re + im i)".
func (r Root) String() string {
	if r.IsReal() {
		return expr.Format(r.Re)
	}
	sign := "+"
	if r.Im < 0 {
		sign = "-"
	}
	return fmt.Sprintf("(%s %s %si)", expr.Format(r.Re), sign, expr.Format(math.Abs(r.Im)))
}

// MarshalJSON encodes real roots as numbers and complex roots as strings.
func (r Root) MarshalJSON() ([]byte, error) {
	if r.IsReal() {
		return json.Marshal(r.Re)
	}
	return json.Marshal(r.String())
}

// Coefficients of a*x^2 + b*x + c.
type Coefficients struct {
	A, B, C float64
}

// Solution is a solved equation.
type Solution struct {
	Equation     string
	Degree       Degree
	Coefficients Coefficients
	Roots        []Root
	Steps        []string
}

// Result renders the roots as "x = r1, r2".
func (s *Solution) Result() string {
	parts := make([]string, len(s.Roots))
	for i, r := range s.Roots {
		parts[i] = r.String()
	}
	return Variable + " = " + strings.Join(parts, ", ")
}

// Solver solves equations using an Evaluator for constant sub-terms.
type Solver struct {
	ev *expr.Evaluator
}

// New creates a Solver. A nil evaluator uses expr.Default().
func New(ev *expr.Evaluator) *Solver {
	if ev == nil {
		ev = expr.Default()
	}
	return &Solver{ev: ev}
}

// Equation solves eq with the default evaluator.
func Equation(eq string) (*Solution, error) {
	return New(nil).Solve(eq)
}

// Solve splits eq on its first '=', moves everything to the left and
// solves the resulting polynomial. Parse errors are returned unchanged;
// anything that parses but has no root is a KindUnsolvableEquation error.
func (s *Solver) Solve(eq string) (*Solution, error) {
	left, right, ok := strings.Cut(eq, "=")
	if !ok {
		return nil, calcerrors.New(calcerrors.KindUnsolvableEquation, "solve", "equation has no '='")
	}

	n, err := s.ev.Parse(left + "-(" + right + ")")
	if err != nil {
		return nil, err
	}

	poly, err := Collect(s.ev, n, Variable)
	if err != nil {
		return nil, calcerrors.Wrap(err, calcerrors.KindUnsolvableEquation, "solve", "cannot collect coefficients")
	}
	if poly.Degree() > 2 {
		return nil, calcerrors.Newf(calcerrors.KindUnsolvableEquation, "solve", "degree %d has no closed form here", poly.Degree())
	}

	sol := &Solution{
		Equation: eq,
		Degree:   Classify(eq),
		Coefficients: Coefficients{
			A: poly.Coeff(2),
			B: poly.Coeff(1),
			C: poly.Coeff(0),
		},
	}

	switch {
	case sol.Coefficients.A != 0:
		sol.Roots = quadraticRoots(sol.Coefficients)
		sol.Steps = quadraticSteps(eq, sol.Roots)
	case sol.Coefficients.B != 0:
		sol.Roots = []Root{{Re: -sol.Coefficients.C / sol.Coefficients.B}}
		sol.Steps = []string{
			"Original equation: " + eq,
			"Linear equation solution: x = " + sol.Roots[0].String(),
		}
	default:
		return nil, calcerrors.New(calcerrors.KindUnsolvableEquation, "solve", "no x term remains")
	}

	return sol, nil
}

// discriminantTolerance is relative to the larger of b² and |4ac|.
const discriminantTolerance = 1e-12

func quadraticRoots(c Coefficients) []Root {
	a, b := c.A, c.B
	d := b*b - 4*a*c.C
	re := -b / (2 * a)

	// Rounding in b*b and 4ac must not split a repeated root.
	if math.Abs(d) <= discriminantTolerance*math.Max(b*b, math.Abs(4*a*c.C)) {
		d = 0
	}

	switch {
	case d < 0:
		im := math.Abs(math.Sqrt(-d) / (2 * a))
		return []Root{{Re: re, Im: im}, {Re: re, Im: -im}}
	case d == 0:
		return []Root{{Re: re}}
	default:
		sq := math.Sqrt(d)
		return []Root{{Re: (-b + sq) / (2 * a)}, {Re: (-b - sq) / (2 * a)}}
	}
}

func quadraticSteps(eq string, roots []Root) []string {
	steps := []string{"Original equation: " + eq}
	if len(roots) == 1 {
		return append(steps, "Repeated root: x = "+roots[0].String())
	}
	return append(steps,
		"x₁ = "+roots[0].String(),
		"x₂ = "+roots[1].String(),
	)
}
