package expr

import (
	"math"
	"sort"
	"sync"
)

// Func is a one-argument real function.
type Func func(float64) float64

// functionTable is a concurrency-safe name -> Func table.
// Reads dominate, so it uses sync.RWMutex.
type functionTable struct {
	mu      sync.RWMutex
	entries map[string]Func
}

func newFunctionTable() *functionTable {
	return &functionTable{
		entries: map[string]Func{
			"sin":  math.Sin,
			"cos":  math.Cos,
			"tan":  math.Tan,
			"log":  math.Log,
			"sqrt": math.Sqrt,
		},
	}
}

func (t *functionTable) register(name string, fn Func) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[name] = fn
}

func (t *functionTable) get(name string) (Func, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.entries[name]
	return fn, ok
}

func (t *functionTable) has(name string) bool {
	_, ok := t.get(name)
	return ok
}

// names returns the registered names in sorted order.
func (t *functionTable) names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.entries))
	for name := range t.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Builtins lists the functions every Evaluator knows.
var Builtins = []string{"sin", "cos", "tan", "log", "sqrt"}

// defaultConstants are the constants every Evaluator knows.
func defaultConstants() map[string]float64 {
	return map[string]float64{
		"pi": math.Pi,
		"e":  math.E,
	}
}
