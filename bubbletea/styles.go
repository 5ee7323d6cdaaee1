package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/scribe"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t scribe.Theme) Styles {
	return Styles{
		Pending: lipgloss.NewStyle().Foreground(ansiColor(t.Pending)),
		Running: lipgloss.NewStyle().Foreground(ansiColor(t.Running)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
