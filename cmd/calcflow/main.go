// Package main is the calcflow command line calculator.
//
// With an expression (-e or positional arguments) it evaluates and exits.
// Without one it starts an interactive session.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randalmurphal/calcflow/pkg/calcflow"
	"github.com/randalmurphal/calcflow/pkg/calcflow/config"
	"github.com/randalmurphal/calcflow/pkg/calcflow/observability"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calcflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML or JSON configuration file")
	degrees := fs.Bool("degrees", false, "start in degree mode")
	expression := fs.String("e", "", "evaluate an expression and exit")
	asJSON := fs.Bool("json", false, "print results as JSON")
	verbose := fs.Bool("v", false, "log evaluations to stderr")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "calcflow %s\n", version)
		return 0
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "calcflow: load config: %v\n", err)
		return 1
	}
	if *degrees {
		settings.DegreeMode = true
	}

	logger := observability.Nop()
	if *verbose {
		logger = observability.NewLogger(stderr, settings.Level(), false)
	}

	engine, err := calcflow.NewFromConfig(settings, calcflow.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "calcflow: %v\n", err)
		return 1
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs := fs.Args()
	if *expression != "" {
		inputs = append([]string{*expression}, inputs...)
	}
	if len(inputs) > 0 {
		return evaluateAll(ctx, engine, inputs, *asJSON, stdout)
	}

	p := tea.NewProgram(newModel(ctx, engine), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "calcflow: %v\n", err)
		return 1
	}
	return 0
}

// evaluateAll prints one result per input. The exit code is 1 if any
// input failed.
func evaluateAll(ctx context.Context, engine *calcflow.Engine, inputs []string, asJSON bool, w io.Writer) int {
	code := 0
	enc := json.NewEncoder(w)
	for _, in := range inputs {
		res := engine.Evaluate(ctx, in)
		if res.Failed() {
			code = 1
		}
		if asJSON {
			if err := enc.Encode(res); err != nil {
				return 1
			}
			continue
		}
		fmt.Fprintln(w, renderResult(res))
	}
	return code
}
