package expr

import (
	"math"
	"sync"
	"testing"

	calcerrors "github.com/randalmurphal/calcflow/pkg/calcflow/errors"
)

func assertClose(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tol=%v)", got, want, tol)
	}
}

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"addition", "1+2", 3},
		{"precedence", "2+3*4", 14},
		{"grouping", "2*(3+5)", 16},
		{"subtraction is left associative", "10-4-3", 3},
		{"division is left associative", "100/10/5", 2},
		{"power is right associative", "2^3^2", 512},
		{"unary minus binds looser than power", "-2^2", -4},
		{"negative exponent", "2^-1", 0.5},
		{"double negation", "--3", 3},
		{"unary plus", "+4", 4},
		{"decimal", "0.5*4", 2},
		{"leading dot", ".25*4", 1},
		{"nested groups", "((1+2)*(3+4))", 21},
		{"whitespace tolerated", " 1 + 2 ", 3},
		{"division by zero is infinite", "1/0", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.IsInf(tt.want, 0) {
				if got != tt.want {
					t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
				}
				return
			}
			assertClose(t, got, tt.want, 1e-12)
		})
	}
}

func TestEval_FunctionsAndConstants(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"sqrt", "sqrt(16)", 4},
		{"sin", "sin(pi/2)", 1},
		{"cos", "cos(0)", 1},
		{"tan", "tan(pi/4)", 1},
		{"natural log", "log(e)", 1},
		{"pi", "pi", math.Pi},
		{"e", "e", math.E},
		{"nested calls", "sqrt(sqrt(16))", 2},
		{"call in power", "sqrt(4)^3", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertClose(t, got, tt.want, 1e-12)
		})
	}
}

func TestEval_Bindings(t *testing.T) {
	got, err := Eval("x^2+2*x+1", Bindings{"x": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, got, 16, 1e-12)

	got, err = Eval("a*b", Bindings{"a": 2, "b": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, got, 10, 1e-12)
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		vars Bindings
		kind calcerrors.Kind
	}{
		{"missing closing paren", "(2+3", nil, calcerrors.KindUnbalancedParentheses},
		{"extra closing paren", "2+3)", nil, calcerrors.KindUnbalancedParentheses},
		{"function without parens", "sin", nil, calcerrors.KindFunctionMissingParentheses},
		{"function followed by operator", "sqrt+1", nil, calcerrors.KindFunctionMissingParentheses},
		{"unknown function", "foo(1)", nil, calcerrors.KindUnknownIdentifier},
		{"unbound variable", "x+1", nil, calcerrors.KindUnknownIdentifier},
		{"other variable bound", "y+1", Bindings{"x": 1}, calcerrors.KindUnknownIdentifier},
		{"non ascii letter", "π*2", nil, calcerrors.KindUnknownIdentifier},
		{"dangling operator", "2+", nil, calcerrors.KindSyntax},
		{"double operator", "2*/3", nil, calcerrors.KindSyntax},
		{"empty", "", nil, calcerrors.KindSyntax},
		{"empty group", "()", nil, calcerrors.KindSyntax},
		{"bad character", "2#3", nil, calcerrors.KindSyntax},
		{"bare dot", ".", nil, calcerrors.KindSyntax},
		{"two numbers", "1.2.3", nil, calcerrors.KindSyntax},
		{"equals sign", "x=1", Bindings{"x": 1}, calcerrors.KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.expr, tt.vars)
			if err == nil {
				t.Fatalf("Eval(%q) expected error, got nil", tt.expr)
			}
			if got := calcerrors.KindOf(err); got != tt.kind {
				t.Errorf("Eval(%q) kind = %s, want %s (err: %v)", tt.expr, got, tt.kind, err)
			}
		})
	}
}

func TestEvaluator_Options(t *testing.T) {
	ev := New(
		WithFunction("abs", math.Abs),
		WithConstant("tau", 2*math.Pi),
	)

	got, err := ev.Evaluate("abs(-tau)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, got, 2*math.Pi, 1e-12)

	if !ev.IsFunction("abs") {
		t.Error("IsFunction(abs) = false, want true")
	}
	if Default().IsFunction("abs") {
		t.Error("custom function leaked into default evaluator")
	}

	want := []string{"abs", "cos", "log", "sin", "sqrt", "tan"}
	got2 := ev.Functions()
	if len(got2) != len(want) {
		t.Fatalf("Functions() = %v, want %v", got2, want)
	}
	for i := range want {
		if got2[i] != want[i] {
			t.Errorf("Functions()[%d] = %s, want %s", i, got2[i], want[i])
		}
	}
}

func TestEvaluator_ParseOnceEvalMany(t *testing.T) {
	ev := New()
	node, err := ev.Parse("x*x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, x := range []float64{-2, 0, 1.5, 10} {
		got, err := ev.EvalNode(node, Bindings{"x": x})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertClose(t, got, x*x, 1e-12)
	}
}

func TestEvaluator_ConcurrentUse(t *testing.T) {
	ev := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := ev.Evaluate("x*2", Bindings{"x": float64(i)})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != float64(2*i) {
				t.Errorf("got %v, want %v", got, 2*i)
			}
		}(i)
	}
	wg.Wait()
}

func TestEval_DeepNesting(t *testing.T) {
	deep := ""
	for i := 0; i < maxDepth+1; i++ {
		deep += "("
	}
	deep += "1"
	for i := 0; i < maxDepth+1; i++ {
		deep += ")"
	}
	if _, err := Eval(deep, nil); err == nil {
		t.Fatal("expected nesting error, got nil")
	}
}
