package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/calcflow/pkg/calcflow"
)

// Lipgloss styles used by the REPL and one-shot output.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9ece6a"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f7768e"))

	suggestionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#e0af68"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7")).
			PaddingLeft(2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	modeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)
)

// renderResult formats a Result as one or more lines: the value or error,
// then any steps, then the suggestion.
func renderResult(res calcflow.Result) string {
	var sb strings.Builder
	if res.Failed() {
		sb.WriteString(errorStyle.Render("error: " + res.Error))
	} else {
		sb.WriteString(resultStyle.Render(res.Result))
	}
	for _, step := range res.Steps {
		sb.WriteString("\n")
		sb.WriteString(stepStyle.Render(step))
	}
	if res.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(suggestionStyle.Render("hint: " + res.Suggestion))
	}
	return sb.String()
}
