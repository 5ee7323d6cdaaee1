// Package bubbletea provides a Bubble Tea TUI that follows a pipeline run:
// one row per step with live status and usage, and a scrollable pane with
// the rendered result of the selected step.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/scribe"
)

// RunFunc executes a run and delivers its events to sink. It blocks until
// the run ends or ctx is cancelled.
type RunFunc func(ctx context.Context, sink scribe.Sink) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// EventMsg wraps a run event for delivery to the model.
type EventMsg struct {
	Event scribe.Event
}

// RunDoneMsg signals that the run function returned.
type RunDoneMsg struct {
	Err error
}
