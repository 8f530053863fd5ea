/*
Package calcflow provides a calculator engine for plain expressions,
equations, derivatives and integrals.

# Overview

An Engine takes one line of loosely written input, normalizes it, routes it
to a stage and returns a Result. The stages are:
  - derivative(expression, variable): symbolic differentiation
  - integral(expression, variable, a, b): trapezoidal integration
  - equations containing '=' and x: linear and quadratic roots
  - everything else: numeric evaluation, recorded in history

# Basic Usage

	engine := calcflow.New()
	defer engine.Close()

	res := engine.Evaluate(ctx, "2*(3+5)")
	fmt.Println(res.Result) // "16"

	res = engine.Evaluate(ctx, "x^2 - 5x + 6 = 0")
	fmt.Println(res.Result) // "x = 3, 2"
	fmt.Println(res.Steps)  // original equation, then one line per root

	res = engine.Evaluate(ctx, "derivative(sin(2x), x)")
	fmt.Println(res.Result) // "2 * cos(2 * x)"

# Errors

Evaluate never returns a Go error and never panics. Failures are reported
in the Result:

	res := engine.Evaluate(ctx, "(2+3")
	res.Error      // "Unbalanced parentheses"
	res.Kind       // "unbalanced_parentheses"
	res.Suggestion // "Missing 1 closing bracket ')'"

Kinds are the names of the errors package Kind values.

# History

Every successful plain evaluation appends "expression = result" to the
engine's history. Each engine has its own session, so engines sharing a
store through WithHistoryStore do not see each other's entries.

	engine.History()      // []string{"2*(3+5) = 16"}
	engine.ClearHistory()

Use NewFromConfig with history.driver set to sqlite to keep history in a
database file.

# Observability

Logging, metrics and tracing are off by default:

	engine := calcflow.New(
	    calcflow.WithLogger(slog.Default()),
	    calcflow.WithMetrics(observability.NewMetricsRecorder()),
	    calcflow.WithSpanManager(observability.NewSpanManager()),
	)

Every call opens a calcflow.evaluate span with a child span named after
the route.
*/
package calcflow
