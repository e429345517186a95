package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pru/pkg/metadata"
)

const maxRecent = 5

// Model tracks a single fetch run
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	mission   string
	total     int
	processed int
	recent    []string
	startTime time.Time

	done bool
	err  error

	width int
}

// NewModel creates a model for a fetch against mission
func NewModel(mission string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	return &Model{
		spinner:   s,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		mission:   mission,
		startTime: time.Now(),
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetTotal records the expected number of records
func (m *Model) SetTotal(total int) {
	m.total = total
}

// Advance records one processed record
func (m *Model) Advance(rec metadata.Metadata) {
	m.processed++
	m.recent = append(m.recent, rec.ImageID)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[len(m.recent)-maxRecent:]
	}
}

// Finish marks the run as complete
func (m *Model) Finish(err error) {
	m.done = true
	m.err = err
}

// Percent returns the completed fraction in [0, 1]
func (m *Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.processed)/float64(m.total), 1)
}

// Processed returns how many records were reported
func (m *Model) Processed() int { return m.processed }

// Total returns the expected record count
func (m *Model) Total() int { return m.total }

// Done reports whether the run finished
func (m *Model) Done() bool { return m.done }

// Err returns the error the run finished with
func (m *Model) Err() error { return m.err }

// Recent returns the latest processed image ids, oldest first
func (m *Model) Recent() []string { return m.recent }
