package scribe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke(t *testing.T) {
	t.Parallel()

	req := scribe.GenerateRequest{Instruction: "sys", Input: "in", Credential: "key"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		g := scribe.GeneratorFunc(func(_ context.Context, got scribe.GenerateRequest) (scribe.Generation, error) {
			assert.Equal(t, req, got)
			return scribe.Generation{Text: "out", Model: "m", InputTokens: 1, OutputTokens: 2}, nil
		})
		out := scribe.Invoke(context.Background(), g, req)
		s, ok := out.(scribe.Succeeded)
		require.True(t, ok, "expected Succeeded, got %T", out)
		assert.Equal(t, "out", s.Generation.Text)
		assert.Equal(t, 2, s.Generation.OutputTokens)
	})

	t.Run("error becomes Failed", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("transport down")
		g := scribe.GeneratorFunc(func(context.Context, scribe.GenerateRequest) (scribe.Generation, error) {
			return scribe.Generation{}, wantErr
		})
		out := scribe.Invoke(context.Background(), g, req)
		f, ok := out.(scribe.Failed)
		require.True(t, ok)
		assert.ErrorIs(t, f.Reason, wantErr)
	})

	t.Run("panic becomes Failed", func(t *testing.T) {
		t.Parallel()
		g := scribe.GeneratorFunc(func(context.Context, scribe.GenerateRequest) (scribe.Generation, error) {
			panic("boom")
		})
		var out scribe.Outcome
		assert.NotPanics(t, func() { out = scribe.Invoke(context.Background(), g, req) })
		f, ok := out.(scribe.Failed)
		require.True(t, ok)
		assert.Contains(t, f.Reason.Error(), "boom")
	})

	t.Run("empty credential skips generator", func(t *testing.T) {
		t.Parallel()
		called := false
		g := scribe.GeneratorFunc(func(context.Context, scribe.GenerateRequest) (scribe.Generation, error) {
			called = true
			return scribe.Generation{}, nil
		})
		out := scribe.Invoke(context.Background(), g, scribe.GenerateRequest{Input: "x"})
		f, ok := out.(scribe.Failed)
		require.True(t, ok)
		assert.ErrorIs(t, f.Reason, scribe.ErrMissingCredential)
		assert.False(t, called)
	})
}

func TestRunState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "not_started", scribe.StateNotStarted.String())
	assert.Equal(t, "running", scribe.StateRunning.String())
	assert.Equal(t, "draining", scribe.StateDraining.String())
	assert.Equal(t, "completed", scribe.StateCompleted.String())
	assert.Equal(t, "unknown", scribe.RunState(42).String())
}
