package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/calcflow/pkg/calcflow"
	"github.com/randalmurphal/calcflow/pkg/calcflow/observability"
)

// maxTranscript bounds how many exchanges the view keeps.
const maxTranscript = 50

// exchange is one line of input and what came back.
type exchange struct {
	input string
	body  string
}

// resultMsg carries an evaluation back into Update.
type resultMsg struct {
	input      string
	res        calcflow.Result
	durationMs float64
}

// model is the interactive session state.
type model struct {
	ctx        context.Context
	engine     *calcflow.Engine
	input      textinput.Model
	transcript []exchange
	width      int
	pending    bool
}

func newModel(ctx context.Context, engine *calcflow.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "2*(3+5), x^2 - 5x + 6 = 0, derivative(sin(x), x) ..."
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Focus()

	return model{
		ctx:    ctx,
		engine: engine,
		input:  ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 20)
		return m, nil

	case resultMsg:
		m.pending = false
		body := renderResult(msg.res)
		body += "\n" + dimStyle.Render(fmt.Sprintf("%.3fms", msg.durationMs))
		m.record(msg.input, body)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" || m.pending {
				return m, nil
			}
			if strings.HasPrefix(line, ":") {
				return m.command(line)
			}
			m.pending = true
			return m, m.evaluate(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evaluate runs the engine off the update loop.
func (m model) evaluate(line string) tea.Cmd {
	return func() tea.Msg {
		done := observability.TimedOperation()
		res := m.engine.Evaluate(m.ctx, line)
		return resultMsg{input: line, res: res, durationMs: done()}
	}
}

// command handles REPL commands, which start with ':'.
func (m model) command(line string) (tea.Model, tea.Cmd) {
	switch line {
	case ":q", ":quit":
		return m, tea.Quit
	case ":history":
		entries := m.engine.History()
		if len(entries) == 0 {
			m.record(line, dimStyle.Render("history is empty"))
			break
		}
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = fmt.Sprintf("%3d  %s", i+1, e)
		}
		m.record(line, strings.Join(lines, "\n"))
	case ":clear":
		if err := m.engine.ClearHistory(); err != nil {
			m.record(line, errorStyle.Render("error: "+err.Error()))
			break
		}
		m.record(line, dimStyle.Render("history cleared"))
	case ":deg":
		m.engine.SetDegreeMode(true)
		m.record(line, dimStyle.Render("degree mode on"))
	case ":rad":
		m.engine.SetDegreeMode(false)
		m.record(line, dimStyle.Render("degree mode off"))
	case ":help":
		m.record(line, helpText())
	default:
		m.record(line, errorStyle.Render("unknown command "+line)+"\n"+helpText())
	}
	return m, nil
}

func (m *model) record(input, body string) {
	m.transcript = append(m.transcript, exchange{input: input, body: body})
	if n := len(m.transcript); n > maxTranscript {
		m.transcript = m.transcript[n-maxTranscript:]
	}
}

func (m model) View() string {
	var sb strings.Builder

	mode := "RAD"
	if m.engine.DegreeMode() {
		mode = "DEG"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("calcflow"), " ", modeStyle.Render(mode))
	sb.WriteString(header)
	sb.WriteString("\n\n")

	for _, ex := range m.transcript {
		sb.WriteString(inputStyle.Render("› " + ex.input))
		sb.WriteString("\n")
		sb.WriteString(ex.body)
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("enter evaluate • :history • :clear • :deg • :rad • esc quit"))
	return sb.String()
}

func helpText() string {
	return dimStyle.Render(strings.Join([]string{
		":history  show this session's history",
		":clear    clear history",
		":deg      degree mode on",
		":rad      degree mode off",
		":quit     exit",
	}, "\n"))
}
