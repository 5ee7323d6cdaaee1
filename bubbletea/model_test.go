package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/scribe"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(context.Background(), nopRun, testPlan(), scribe.DefaultTheme())

	assert.True(t, m.Running())
	assert.False(t, m.Completed())
	assert.NoError(t, m.Err())
	assert.Empty(t, m.Selected())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size leaves room for steps and status", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 24-6, m.Viewport.Height)
		assert.Len(t, strings.Split(m.View(), "\n"), 24)
	})

	t.Run("step event completes row and shows result", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("research", "# Findings\n\nSolar is cheap.")})

		assert.Equal(t, "research", m.Selected())
		assert.Equal(t, 1, m.Totals().Steps)
		assert.Equal(t, 100, m.Totals().InputTokens)
		view := m.View()
		assert.Contains(t, view, "✓ research")
		assert.Contains(t, view, "gpt-4o-mini  100→200 tok  $0.000135")
		assert.Contains(t, view, "Findings")
		assert.Contains(t, view, "Generating outline (2/3)")
	})

	t.Run("unknown cost shows N/A", func(t *testing.T) {
		t.Parallel()

		e := stepEvent("research", "text")
		e.Usage.Cost = scribe.UnknownCost()
		m := updateModel(t, initModel(t, nopRun), bt.EventMsg{Event: e})

		assert.Contains(t, m.View(), "tok  N/A")
	})

	t.Run("step error marks row and continues", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.EventMsg{Event: scribe.EventError{
			Step:    "research-complete",
			Message: "failed to get response for step: research-complete",
		}})

		assert.Equal(t, 1, m.Totals().Failures)
		assert.Empty(t, m.Fatal())
		view := m.View()
		assert.Contains(t, view, "✗ research")
		assert.Contains(t, view, "failed to get response for step: research-complete")
		assert.Contains(t, view, "Generating outline (2/3)")
	})

	t.Run("fatal error is shown in status line", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.EventMsg{Event: scribe.EventError{
			Message: "configuration error: credential is required",
			Fatal:   true,
		}})
		m = updateModel(t, m, bt.RunDoneMsg{})

		assert.Equal(t, "configuration error: credential is required", m.Fatal())
		assert.False(t, m.Completed())
		assert.Contains(t, m.View(), "Error: configuration error: credential is required")
	})

	t.Run("run error is kept", func(t *testing.T) {
		t.Parallel()

		m := updateModel(t, initModel(t, nopRun), bt.RunDoneMsg{Err: errors.New("connection reset")})

		assert.False(t, m.Running())
		assert.EqualError(t, m.Err(), "connection reset")
		assert.Contains(t, m.View(), "Error: connection reset")
	})

	t.Run("cancellation is not an error", func(t *testing.T) {
		t.Parallel()

		m := updateModel(t, initModel(t, nopRun), bt.RunDoneMsg{Err: context.Canceled})

		assert.NoError(t, m.Err())
	})

	t.Run("completion selects final result", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun, bt.WithFinalKey("outline"))
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("research", "r")})
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("outline", "o")})
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("content", "c")})
		m = updateModel(t, m, bt.EventMsg{Event: scribe.EventComplete{}})
		m = updateModel(t, m, bt.RunDoneMsg{})

		assert.True(t, m.Completed())
		assert.Equal(t, "outline", m.Selected())
		assert.Contains(t, m.View(), "Done 3/3")
	})

	t.Run("totals use thousands separators", func(t *testing.T) {
		t.Parallel()

		e := stepEvent("research", "r")
		e.Usage.InputTokens = 12345
		e.Usage.OutputTokens = 6789
		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.EventMsg{Event: e})
		m = updateModel(t, m, bt.RunDoneMsg{})

		assert.Contains(t, m.View(), "12,345 in / 6,789 out tok")
	})

	t.Run("tab cycles through completed steps", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun)
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("research", "r")})
		m = updateModel(t, m, bt.EventMsg{Event: scribe.EventError{Step: "outline-complete", Message: "x"}})
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("content", "c")})
		require.Equal(t, "content", m.Selected())

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "research", m.Selected())
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "content", m.Selected())
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, "research", m.Selected())
	})

	t.Run("manual selection stops following", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopRun, bt.WithFinalKey("content"))
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("research", "r")})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		m = updateModel(t, m, bt.EventMsg{Event: stepEvent("outline", "o")})
		m = updateModel(t, m, bt.RunDoneMsg{})

		assert.Equal(t, "research", m.Selected())
	})

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()

		m := updateModel(t, initModel(t, nopRun), bt.RunDoneMsg{})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("q while running is ignored", func(t *testing.T) {
		t.Parallel()

		_, cmd := initModel(t, nopRun).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		assert.Nil(t, cmd)
	})

	t.Run("rows fit narrow terminals", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, nopRun, 30, 20)
		e := stepEvent("research", "r")
		e.Usage.Model = "a-very-long-model-identifier-2025-01-01"
		m = updateModel(t, m, bt.EventMsg{Event: e})

		lines := strings.Split(m.View(), "\n")
		for _, line := range lines[1:4] {
			assert.LessOrEqual(t, runewidth.StringWidth(line), 30, "row too wide: %q", line)
		}
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full run", func(t *testing.T) {
		t.Parallel()

		run := func(_ context.Context, sink scribe.Sink) error {
			for _, e := range []scribe.Event{
				stepEvent("research", "findings"),
				stepEvent("outline", "plan"),
				stepEvent("content", "# Final Article\n\nBody text here."),
				scribe.EventComplete{},
			} {
				if err := sink.Emit(e); err != nil {
					return err
				}
			}
			return nil
		}
		m := bt.New(context.Background(), run, testPlan(), scribe.DefaultTheme(), bt.WithFinalKey("content"))
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Final Article")) &&
				bytes.Contains(out, []byte("Done 3/3"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.True(t, final.Completed())
		assert.Equal(t, "content", final.Selected())
		assert.Equal(t, 3, final.Totals().Steps)
	})

	t.Run("ctrl+c cancels the run", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		run := func(ctx context.Context, _ scribe.Sink) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		m := bt.New(context.Background(), run, testPlan(), scribe.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		<-started
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Cancelled"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		assert.False(t, final.Completed())
	})
}
