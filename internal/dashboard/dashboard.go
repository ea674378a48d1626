// Package dashboard renders a live, per-level view of pipeline progress,
// the visual counterpart of pipeline.Pipeline.ParallelOrder(). It
// subscribes to a channel of pipeline.ProgressEvent emitted by
// middleware/progress.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowforge/flowcore/pipeline"
)

type stepState int

const (
	statePending stepState = iota
	stateRunning
	stateDone
	stateHalted
)

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	haltedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	levelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
)

// Model is a bubbletea.Model rendering levels of named steps and their
// current state.
type Model struct {
	levels  [][]string
	state   map[string]stepState
	events  <-chan pipeline.ProgressEvent
	done    bool
	halted  string
}

// New builds a Model for the given static level partition (as returned
// by Pipeline.ParallelOrder), consuming progress events from events.
func New(levels [][]string, events <-chan pipeline.ProgressEvent) Model {
	state := make(map[string]stepState)
	for _, level := range levels {
		for _, step := range level {
			state[step] = statePending
		}
	}
	return Model{levels: levels, state: state, events: events}
}

type eventMsg pipeline.ProgressEvent
type closedMsg struct{}

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(evt)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case eventMsg:
		switch t.Type {
		case pipeline.ProgressStepStart:
			m.state[t.Step] = stateRunning
		case pipeline.ProgressStepDone:
			m.state[t.Step] = stateDone
		case pipeline.ProgressStepHalted:
			m.state[t.Step] = stateHalted
			m.halted = t.Step
		}
		return m, m.waitForEvent()
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if t.String() == "q" || t.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	for i, level := range m.levels {
		b.WriteString(levelStyle.Render(fmt.Sprintf("level %d", i)))
		b.WriteString("\n")
		for _, step := range level {
			b.WriteString("  ")
			b.WriteString(renderStep(step, m.state[step]))
			b.WriteString("\n")
		}
	}
	if m.halted != "" {
		b.WriteString(haltedStyle.Render(fmt.Sprintf("halted at %s\n", m.halted)))
	}
	if m.done {
		b.WriteString("done\n")
	}
	return b.String()
}

func renderStep(name string, s stepState) string {
	switch s {
	case stateRunning:
		return runningStyle.Render("▶ " + name)
	case stateDone:
		return doneStyle.Render("✓ " + name)
	case stateHalted:
		return haltedStyle.Render("✗ " + name)
	default:
		return pendingStyle.Render("· " + name)
	}
}
