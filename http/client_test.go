package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/content"
	scribehttp "github.com/fwojciec/scribe/http"
	"github.com/fwojciec/scribe/mock"
	"github.com/fwojciec/scribe/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	t.Run("delivers events until complete", func(t *testing.T) {
		t.Parallel()

		runner := &mock.Runner{
			RunFn: func(_ context.Context, _ scribe.Plan, _ string, sink scribe.Sink) scribe.Report {
				_ = sink.Emit(scribe.EventStep{
					EventName: content.EventResearch,
					ResultKey: content.KeyResearch,
					Text:      "findings",
					Usage:     scribe.Usage{InputTokens: 10, OutputTokens: 20, Model: "unpriced", Cost: scribe.UnknownCost()},
				})
				_ = sink.Emit(scribe.EventError{Step: content.EventOutline, Message: "failed to get response for step: outline-complete"})
				_ = sink.Emit(scribe.EventComplete{})
				return scribe.Report{State: scribe.StateCompleted}
			},
		}
		ts := httptest.NewServer(scribehttp.NewServer(runner))
		t.Cleanup(ts.Close)

		sink := &mock.Sink{}
		err := scribehttp.NewClient(ts.URL+"/").Generate(context.Background(), content.Options{APIKey: "k", Keyword: "kw"}, sink)

		require.NoError(t, err)
		assert.Equal(t, []scribe.Event{
			scribe.EventStep{
				EventName: content.EventResearch,
				ResultKey: content.KeyResearch,
				Text:      "findings",
				Usage:     scribe.Usage{InputTokens: 10, OutputTokens: 20, Model: "unpriced", Cost: scribe.UnknownCost()},
			},
			scribe.EventError{Step: content.EventOutline, Message: "failed to get response for step: outline-complete"},
			scribe.EventComplete{},
		}, sink.Events())
	})

	t.Run("returns server validation error", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(scribehttp.NewServer(unusedRunner(t)))
		t.Cleanup(ts.Close)

		err := scribehttp.NewClient(ts.URL).Generate(context.Background(), content.Options{Keyword: "kw"}, &mock.Sink{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 400: api key not provided")
	})

	t.Run("stream without complete is incomplete", func(t *testing.T) {
		t.Parallel()

		runner := &mock.Runner{
			RunFn: func(_ context.Context, _ scribe.Plan, _ string, sink scribe.Sink) scribe.Report {
				_ = sink.Emit(scribe.EventError{Message: "boom", Fatal: true})
				return scribe.Report{State: scribe.StateDraining}
			},
		}
		ts := httptest.NewServer(scribehttp.NewServer(runner))
		t.Cleanup(ts.Close)

		sink := &mock.Sink{}
		err := scribehttp.NewClient(ts.URL).Generate(context.Background(), content.Options{APIKey: "k", Keyword: "kw"}, sink)

		assert.ErrorIs(t, err, scribehttp.ErrIncomplete)
		assert.Equal(t, []scribe.Event{scribe.EventError{Message: "boom", Fatal: true}}, sink.Events())
	})

	t.Run("sink error stops reading", func(t *testing.T) {
		t.Parallel()

		runner := &mock.Runner{
			RunFn: func(_ context.Context, _ scribe.Plan, _ string, sink scribe.Sink) scribe.Report {
				_ = sink.Emit(scribe.EventError{Step: "a", Message: "x"})
				_ = sink.Emit(scribe.EventComplete{})
				return scribe.Report{}
			},
		}
		ts := httptest.NewServer(scribehttp.NewServer(runner))
		t.Cleanup(ts.Close)

		errStop := errors.New("stop")
		sink := &mock.Sink{EmitFn: func(scribe.Event) error { return errStop }}
		err := scribehttp.NewClient(ts.URL, scribehttp.WithHTTPClient(&http.Client{})).
			Generate(context.Background(), content.Options{APIKey: "k", Keyword: "kw"}, sink)

		assert.ErrorIs(t, err, errStop)
		assert.Len(t, sink.Events(), 1)
	})
}

func TestClient_EndToEnd(t *testing.T) {
	t.Parallel()

	gen := &mock.Generator{
		GenerateFn: func(_ context.Context, req scribe.GenerateRequest) (scribe.Generation, error) {
			return scribe.Generation{Text: "text", Model: "m", InputTokens: 1000, OutputTokens: 1000}, nil
		},
	}
	engine := pipeline.New(gen, pipeline.WithPrices(scribe.PriceTable{"m": {Input: 1, Output: 2}}))
	ts := httptest.NewServer(scribehttp.NewServer(engine))
	t.Cleanup(ts.Close)

	sink := &mock.Sink{}
	err := scribehttp.NewClient(ts.URL).Generate(context.Background(), content.Options{APIKey: "k", Keyword: "kw"}, sink)
	require.NoError(t, err)

	events := sink.Events()
	require.Len(t, events, 4)
	for i, name := range []string{content.EventResearch, content.EventOutline, content.EventContent} {
		step, ok := events[i].(scribe.EventStep)
		require.True(t, ok, "event %d is %T", i, events[i])
		assert.Equal(t, name, step.EventName)
		assert.Equal(t, "text", step.Text)
		assert.Equal(t, scribe.KnownCost(0.003), step.Usage.Cost)
	}
	assert.Equal(t, scribe.EventComplete{}, events[3])
}
