package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/calcflow/pkg/calcflow"
)

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-version"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Equal(t, "calcflow dev\n", out.String())
}

func TestRun_OneShotJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-json", "-e", "2*(3+5)", "x^2-5x+6=0"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	dec := json.NewDecoder(&out)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "16", first["result"])
	assert.Equal(t, "x = 3, 2", second["result"])
	assert.Equal(t, true, second["is_equation"])
}

func TestRun_OneShotFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"(2+3"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Unbalanced parentheses")
	assert.Contains(t, out.String(), "Missing 1 closing bracket ')'")
}

func TestRun_Degrees(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-degrees", "-json", "sin(deg(90))"}, &out, &errOut)
	require.Equal(t, 0, code)
	assert.Contains(t, out.String(), `"result":"1"`)
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calcflow.yaml")
	yaml := "integration:\n  subintervals: 10\nhistory:\n  driver: sqlite\n  path: " + filepath.Join(dir, "h.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	var out, errOut bytes.Buffer
	code := run([]string{"-config", path, "-json", "integral(x, x, 0, 1)"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "with 10 subdivisions")
}

func TestRun_BadConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "1+1"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "load config")
}

func TestRun_BadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, &out, &errOut))
}

func TestRenderResult(t *testing.T) {
	got := renderResult(calcflow.Result{
		Result:     "x = 3, 2",
		Steps:      []string{"Original equation: x^2-5*x+6=0", "x₁ = 3", "x₂ = 2"},
		Suggestion: "graph it",
	})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "x = 3, 2")
	assert.Contains(t, lines[2], "x₁ = 3")
	assert.Contains(t, lines[4], "hint: graph it")

	got = renderResult(calcflow.Result{Error: "Syntax Error"})
	assert.Contains(t, got, "error: Syntax Error")
}

// submit types line into the model and presses enter, running any
// returned command the way the program loop would.
func submit(t *testing.T, m model, line string) model {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if cmd != nil {
		if msg, ok := cmd().(resultMsg); ok {
			next, _ = m.Update(msg)
			m = next.(model)
		}
	}
	return m
}

func newTestModel(t *testing.T) model {
	t.Helper()
	engine := calcflow.New()
	t.Cleanup(func() { _ = engine.Close() })
	return newModel(context.Background(), engine)
}

func TestModel_Evaluate(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "2*(3+5)")

	require.Len(t, m.transcript, 1)
	assert.Equal(t, "2*(3+5)", m.transcript[0].input)
	assert.Contains(t, m.transcript[0].body, "16")
	assert.False(t, m.pending)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "16")
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t)

	m = submit(t, m, ":history")
	assert.Contains(t, m.transcript[0].body, "history is empty")

	m = submit(t, m, "1+1")
	m = submit(t, m, ":history")
	assert.Contains(t, m.transcript[2].body, "1+1 = 2")

	m = submit(t, m, ":clear")
	assert.Empty(t, m.engine.History())

	m = submit(t, m, ":deg")
	assert.True(t, m.engine.DegreeMode())
	assert.Contains(t, m.View(), "DEG")

	m = submit(t, m, ":rad")
	assert.False(t, m.engine.DegreeMode())

	m = submit(t, m, ":bogus")
	assert.Contains(t, m.transcript[len(m.transcript)-1].body, "unknown command :bogus")
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "   ")
	assert.Empty(t, m.transcript)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m.input.SetValue(":quit")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_TranscriptBounded(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < maxTranscript+5; i++ {
		m.record("1", "1")
	}
	assert.Len(t, m.transcript, maxTranscript)
}
