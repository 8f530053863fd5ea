package expr

import (
	"math"
	"testing"
)

func TestNode_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2", "1 + 2"},
		{"2*(3+5)", "2 * (3 + 5)"},
		{"a-(b-c)", "a - (b - c)"},
		{"a-(b+c)", "a - (b + c)"},
		{"(a-b)-c", "a - b - c"},
		{"a/(b*c)", "a / (b * c)"},
		{"a*(b/c)", "a * b / c"},
		{"(a^b)^c", "(a ^ b) ^ c"},
		{"a^b^c", "a ^ b ^ c"},
		{"(-2)^2", "(-2) ^ 2"},
		{"-x^2", "-x ^ 2"},
		{"-(x+1)", "-(x + 1)"},
		{"sin(x)*cos(x)", "sin(x) * cos(x)"},
		{"pi*x", "pi * x"},
		{"0.5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNode_StringRoundTrip verifies printed trees evaluate to the same value.
func TestNode_StringRoundTrip(t *testing.T) {
	inputs := []string{
		"2^3^2",
		"(2^3)^2",
		"10-(4-3)",
		"100/(10/5)",
		"-(2+3)*4",
		"-2^2",
		"sqrt(16)/(1+1)",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			n, err := Parse(in)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			want, err := Default().EvalNode(n, nil)
			if err != nil {
				t.Fatalf("EvalNode error: %v", err)
			}
			got, err := Eval(n.String(), nil)
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", n.String(), err)
			}
			assertClose(t, got, want, 1e-12)
		})
	}
}

func TestNum_StringNegativeZero(t *testing.T) {
	n := &Num{Value: math.Copysign(0, -1)}
	if got := n.String(); got != "0" {
		t.Errorf("String() = %q, want %q", got, "0")
	}
}

func TestHasVar(t *testing.T) {
	n, err := Parse("sin(x)+y*2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !HasVar(n, "x") || !HasVar(n, "y") {
		t.Error("HasVar should find x and y")
	}
	if HasVar(n, "z") {
		t.Error("HasVar(z) = true, want false")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{"integer", 16, "16"},
		{"near integer", 3.99999999999999, "4"},
		{"negative integer", -7, "-7"},
		{"fraction", 0.5, "0.5"},
		{"eight decimals", 1.0 / 3.0, "0.33333333"},
		{"rounded up", 2.0 / 3.0, "0.66666667"},
		{"tiny negative", -1e-9, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"nan", math.NaN(), "NaN"},
		{"positive infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
		{"large integer", 1e15, "1000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestBindings_With(t *testing.T) {
	base := Bindings{"a": 1}
	next := base.With("b", 2)
	if _, ok := base.Lookup("b"); ok {
		t.Error("With must not modify the receiver")
	}
	if v, ok := next.Lookup("a"); !ok || v != 1 {
		t.Error("With must copy existing bindings")
	}
	var nilBindings Bindings
	if _, ok := nilBindings.Lookup("x"); ok {
		t.Error("nil Bindings should have no entries")
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"x", "t", "_a", "x1", "Theta"} {
		if !IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "1x", "x-y", "x y", "2", "x,"} {
		if IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true, want false", s)
		}
	}
}
