package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"pru/pkg/metadata"
)

// ErrInterrupted is returned when the user quits before the fetch ends.
var ErrInterrupted = errors.New("interrupted by user")

// FetchFunc runs a fetch, reporting through the two callbacks.
type FetchFunc func(ctx context.Context, onTotal func(int), onProgress func(metadata.Metadata)) error

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance
func NewTUI(mission string, opts ...tea.ProgramOption) *TUI {
	model := NewModel(mission)
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Run executes fn in the background while the interface is shown and
// returns fn's error.
func (t *TUI) Run(ctx context.Context, fn FetchFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := fn(ctx,
			func(total int) { t.program.Send(TotalMsg{Total: total}) },
			func(rec metadata.Metadata) { t.program.Send(ProgressMsg{Record: rec}) },
		)
		errCh <- err
		t.program.Send(DoneMsg{Err: err})
	}()

	if _, err := t.program.Run(); err != nil {
		cancel()
		<-errCh
		return err
	}

	if !t.model.Done() {
		cancel()
		<-errCh
		return ErrInterrupted
	}
	return <-errCh
}

// Model exposes the state of the last run
func (t *TUI) Model() *Model {
	return t.model
}
