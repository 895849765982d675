package io

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PendingOutput is the message an action returns to finish the spinner and
// replace it with final output.
type PendingOutput string

// Pending shows a spinner next to a status line while an action runs. The
// action reports back with a PendingOutput or an error; the error is kept on
// the model so callers can surface it after the program exits.
type Pending struct {
	Err error

	action  tea.Cmd
	text    string
	done    bool
	spinner spinner.Model
}

// NewPendingCommand wraps action with a spinner showing loadingText until the
// action reports back.
func NewPendingCommand(action tea.Cmd, loadingText string) Pending {
	return Pending{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		action:  action,
		text:    loadingText,
	}
}

// RunPending executes the action behind a spinner and returns the error it
// reported, if any.
func RunPending(action tea.Cmd, loadingText string) error {
	model, err := tea.NewProgram(NewPendingCommand(action, loadingText)).Run()
	if err != nil {
		return err
	}
	if p, ok := model.(Pending); ok {
		return p.Err
	}
	return nil
}

// Init implements tea.Model.
func (p Pending) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.action)
}

// Update implements tea.Model.
func (p Pending) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			p.done = true
			p.text = "Cancelled"
			return p, tea.Quit
		}
		return p, nil
	case PendingOutput:
		p.done = true
		p.text = string(msg)
		return p, tea.Quit
	case error:
		p.done = true
		p.Err = msg
		p.text = "Error: " + msg.Error()
		return p, tea.Quit
	default:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
}

// View implements tea.Model.
func (p Pending) View() string {
	if p.done {
		// end on a newline or the final line gets swallowed on exit
		return strings.TrimRight(p.text, "\n") + "\n"
	}
	return p.spinner.View() + " " + p.text
}
