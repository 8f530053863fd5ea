package benchmarks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/calcflow/pkg/calcflow"
	"github.com/randalmurphal/calcflow/pkg/calcflow/derive"
	"github.com/randalmurphal/calcflow/pkg/calcflow/expr"
	"github.com/randalmurphal/calcflow/pkg/calcflow/history"
	"github.com/randalmurphal/calcflow/pkg/calcflow/integrate"
	"github.com/randalmurphal/calcflow/pkg/calcflow/normalize"
	"github.com/randalmurphal/calcflow/pkg/calcflow/solve"
)

// BenchmarkNormalize measures the rewrite pipeline.
func BenchmarkNormalize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		normalize.Normalize("2x^2 + 3(x+1)(x-1) - sin(deg(30)) × 4")
	}
}

// BenchmarkParse measures parsing without evaluation.
func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Parse("2*x^2+3*(x+1)*(x-1)-sin(x)/4")
	}
}

// BenchmarkEvalNode measures evaluating a pre-parsed tree.
func BenchmarkEvalNode(b *testing.B) {
	n, err := expr.Parse("2*x^2+3*(x+1)*(x-1)-sin(x)/4")
	if err != nil {
		b.Fatal(err)
	}
	ev := expr.Default()
	vars := expr.Bindings{"x": 1.5}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.EvalNode(n, vars)
	}
}

// BenchmarkSolve_Quadratic measures coefficient collection plus roots.
func BenchmarkSolve_Quadratic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = solve.Equation("(x-1)*(x+2)*3=x")
	}
}

// BenchmarkDerivative measures differentiation of a composite expression.
func BenchmarkDerivative(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = derive.Derivative("x^3*sin(2*x)/sqrt(x)", "x")
	}
}

// BenchmarkIntegrate_1000 measures the default trapezoid partition.
func BenchmarkIntegrate_1000(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = integrate.Expression(nil, "x^2*sin(x)", "x", 0, 3.14159)
	}
}

// BenchmarkEngine_Plain measures a full plain evaluation with in-memory history.
func BenchmarkEngine_Plain(b *testing.B) {
	engine := calcflow.New()
	defer engine.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Evaluate(ctx, "2*(3+5)")
		if i%1000 == 999 {
			_ = engine.ClearHistory()
		}
	}
}

// BenchmarkEngine_Equation measures routing plus solving.
func BenchmarkEngine_Equation(b *testing.B) {
	engine := calcflow.New()
	defer engine.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Evaluate(ctx, "x^2 - 5x + 6 = 0")
	}
}

// BenchmarkEngine_Parallel measures concurrent plain evaluation.
func BenchmarkEngine_Parallel(b *testing.B) {
	engine := calcflow.New(calcflow.WithHistoryStore(history.NewMemoryStore(history.WithMaxEntries(100))))
	defer engine.Close()
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			engine.Evaluate(ctx, "sqrt(16)+log(e)")
		}
	})
}

// BenchmarkSQLiteStore_Append measures a durable history append.
func BenchmarkSQLiteStore_Append(b *testing.B) {
	store, err := history.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"), history.WithMaxEntries(1000))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append("bench", "2*(3+5) = 16")
	}
}
