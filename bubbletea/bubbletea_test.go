package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/scribe"
	bt "github.com/fwojciec/scribe/bubbletea"
	"github.com/stretchr/testify/require"
)

func testPlan() scribe.Plan {
	step := func(key, event string) scribe.Step {
		return scribe.Step{
			Input:       func(scribe.Results) (string, error) { return key, nil },
			Instruction: "instruction",
			ResultKey:   key,
			EventName:   event,
		}
	}
	return scribe.Plan{
		step("research", "research-complete"),
		step("outline", "outline-complete"),
		step("content", "content-complete"),
	}
}

func stepEvent(key, text string) scribe.EventStep {
	return scribe.EventStep{
		EventName: key + "-complete",
		ResultKey: key,
		Text:      text,
		Usage: scribe.Usage{
			InputTokens:  100,
			OutputTokens: 200,
			Model:        "gpt-4o-mini",
			Cost:         scribe.KnownCost(0.000135),
		},
	}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, run bt.RunFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, run, 80, 24, opts...)
}

func initModelWithSize(t *testing.T, run bt.RunFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(context.Background(), run, testPlan(), scribe.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopRun is a run function that emits nothing.
func nopRun(context.Context, scribe.Sink) error {
	return nil
}
