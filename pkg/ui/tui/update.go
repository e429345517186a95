package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pru/pkg/metadata"
)

// TotalMsg carries the on_total callback
type TotalMsg struct {
	Total int
}

// ProgressMsg carries the on_progress callback
type ProgressMsg struct {
	Record metadata.Metadata
}

// DoneMsg is sent once the fetch returns
type DoneMsg struct {
	Err error
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TotalMsg:
		m.SetTotal(msg.Total)
		return m, nil

	case ProgressMsg:
		m.Advance(msg.Record)
		return m, nil

	case DoneMsg:
		m.Finish(msg.Err)
		return m, tea.Quit
	}

	return m, nil
}
