// Package pipeline executes a scribe.Plan step by step against a
// scribe.Generator, folding each result into the next step's input and
// emitting progress as an ordered event stream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/scribe"
	"github.com/google/uuid"
)

// Interface compliance check.
var _ scribe.Runner = (*Engine)(nil)

// Engine runs plans. An Engine holds no per-run state and is safe for
// concurrent use; every run owns its own results and totals.
type Engine struct {
	generator scribe.Generator
	prices    scribe.PriceTable
	logger    *slog.Logger
	recorder  scribe.Recorder
}

// Option configures an [Engine].
type Option func(*Engine)

// WithPrices sets the price table used for cost estimates.
// Default is [scribe.DefaultPrices].
func WithPrices(t scribe.PriceTable) Option {
	return func(e *Engine) { e.prices = t }
}

// WithLogger sets the logger for per-step and cumulative cost lines.
// Default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder sets a metrics recorder.
func WithRecorder(r scribe.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an Engine that calls g once per step.
func New(g scribe.Generator, opts ...Option) *Engine {
	e := &Engine{
		generator: g,
		prices:    scribe.DefaultPrices(),
		logger:    slog.New(slog.DiscardHandler),
		recorder:  nopRecorder{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Stream runs the plan in a new goroutine and returns its events on an
// unbuffered channel that is closed after the last event. Cancelling ctx is
// how a consumer stops reading: the producer then exits without emitting
// anything further. A step already in flight runs to completion and its
// result is discarded.
func (e *Engine) Stream(ctx context.Context, plan scribe.Plan, credential string) <-chan scribe.Event {
	ch := make(chan scribe.Event)
	go func() {
		defer close(ch)
		e.Run(ctx, plan, credential, chanSink{ctx: ctx, ch: ch})
	}()
	return ch
}

// Run executes the plan sequentially and delivers events to sink. It returns
// once the run reaches a terminal state.
//
// An empty credential or an invalid plan produces a single fatal error event
// and no generation calls. A step whose generation fails produces a non-fatal
// error event, its result key stays absent, and the run continues. A failing
// or panicking input builder, or a sink error, is fatal: one error event is
// emitted and the stream ends without a complete event. If ctx is done when
// the sink fails, the consumer has stopped reading and nothing more is emitted.
func (e *Engine) Run(ctx context.Context, plan scribe.Plan, credential string, sink scribe.Sink) scribe.Report {
	r := &run{
		Engine: e,
		sink:   sink,
		report: scribe.Report{RunID: uuid.NewString(), State: scribe.StateNotStarted},
	}
	r.logger = e.logger.With("run_id", r.report.RunID)
	r.execute(ctx, plan, credential)
	e.recorder.RunFinished(r.report.State, r.report.Totals)
	return r.report
}

// run holds the state of one execution. It is never shared.
type run struct {
	*Engine
	sink   scribe.Sink
	logger *slog.Logger
	report scribe.Report
}

func (r *run) execute(ctx context.Context, plan scribe.Plan, credential string) {
	if credential == "" {
		r.logger.Error("pipeline not started", "error", scribe.ErrMissingCredential)
		r.abort(ctx, scribe.EventError{Message: "configuration error: credential is required", Fatal: true}, scribe.ErrMissingCredential)
		return
	}
	if err := plan.Validate(); err != nil {
		r.logger.Error("pipeline not started", "error", err)
		r.abort(ctx, scribe.EventError{Message: err.Error(), Fatal: true}, err)
		return
	}

	r.report.State = scribe.StateRunning
	for _, step := range plan {
		if !r.step(ctx, step, credential) {
			return
		}
	}

	t := r.report.Totals
	r.logger.Info("pipeline complete",
		"steps", t.Steps,
		"failures", t.Failures,
		"input_tokens", t.InputTokens,
		"output_tokens", t.OutputTokens,
		"estimated_cost", t.Cost().String(),
	)
	if !r.emit(ctx, scribe.EventComplete{}) {
		return
	}
	r.report.State = scribe.StateCompleted
}

// step executes one step and reports whether the run should continue.
func (r *run) step(ctx context.Context, step scribe.Step, credential string) bool {
	// Stop before paying for a call nobody will read.
	if err := ctx.Err(); err != nil {
		r.drain(err)
		return false
	}

	input, err := buildInput(step, r.report.Results)
	if err != nil {
		err = fmt.Errorf("step %s: %w", step.EventName, err)
		r.logger.Error("input builder failed", "step", step.EventName, "error", err)
		r.abort(ctx, scribe.EventError{Step: step.EventName, Message: err.Error(), Fatal: true}, err)
		return false
	}

	outcome := scribe.Invoke(ctx, r.generator, scribe.GenerateRequest{
		Instruction: step.Instruction,
		Input:       input,
		Credential:  credential,
	})

	switch o := outcome.(type) {
	case scribe.Failed:
		r.report.Totals.Failures++
		r.recorder.StepFailed(step.EventName)
		r.logger.Warn("step failed", "step", step.EventName, "error", o.Reason)
		return r.emit(ctx, scribe.EventError{
			Step:    step.EventName,
			Message: "failed to get response for step: " + step.EventName,
		})

	case scribe.Succeeded:
		gen := o.Generation
		r.report.Results = r.report.Results.With(step.ResultKey, gen.Text)

		usage := scribe.Usage{
			InputTokens:  gen.InputTokens,
			OutputTokens: gen.OutputTokens,
			Model:        gen.Model,
			Cost:         r.prices.Estimate(gen.Model, gen.InputTokens, gen.OutputTokens),
		}
		r.report.Totals.Add(usage)
		r.recorder.StepCompleted(step.EventName, usage)

		if !usage.Cost.Known {
			r.logger.Warn("pricing not found", "model", gen.Model, "step", step.EventName)
		}
		r.logger.Info("step complete",
			"step", step.EventName,
			"model", usage.Model,
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"estimated_cost", usage.Cost.String(),
		)
		return r.emit(ctx, scribe.EventStep{
			EventName: step.EventName,
			ResultKey: step.ResultKey,
			Text:      gen.Text,
			Usage:     usage,
		})

	default:
		err := fmt.Errorf("step %s: unexpected outcome %T", step.EventName, outcome)
		r.abort(ctx, scribe.EventError{Step: step.EventName, Message: err.Error(), Fatal: true}, err)
		return false
	}
}

// emit delivers e and reports whether the run can continue. A sink error
// while ctx is live is an unexpected failure and aborts the run.
func (r *run) emit(ctx context.Context, e scribe.Event) bool {
	err := r.sink.Emit(e)
	if err == nil {
		return true
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.drain(ctxErr)
		return false
	}
	err = fmt.Errorf("emit %s event: %w", e.Name(), err)
	r.logger.Error("emit failed", "error", err)
	var step string
	if se, ok := e.(scribe.EventStep); ok {
		step = se.EventName
	}
	r.abort(ctx, scribe.EventError{Step: step, Message: err.Error(), Fatal: true}, err)
	return false
}

// abort emits a single fatal error event and moves the run to Draining.
// A failure to deliver the error event itself is logged only.
func (r *run) abort(ctx context.Context, e scribe.EventError, cause error) {
	r.drain(cause)
	if err := r.sink.Emit(e); err != nil && ctx.Err() == nil {
		r.logger.Error("emit failed", "error", fmt.Errorf("emit error event: %w", err))
	}
}

func (r *run) drain(cause error) {
	r.report.State = scribe.StateDraining
	r.report.Err = cause
	if errors.Is(cause, context.Canceled) {
		r.logger.Info("consumer stopped reading")
	}
}

// buildInput calls the step's input builder, converting a panic to an error.
func buildInput(step scribe.Step, results scribe.Results) (input string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("input builder panic: %v", p)
		}
	}()
	return step.Input(results)
}

// chanSink forwards events to a channel until ctx is done.
type chanSink struct {
	ctx context.Context
	ch  chan<- scribe.Event
}

func (s chanSink) Emit(e scribe.Event) error {
	select {
	case s.ch <- e:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

type nopRecorder struct{}

func (nopRecorder) StepCompleted(string, scribe.Usage)         {}
func (nopRecorder) StepFailed(string)                          {}
func (nopRecorder) RunFinished(scribe.RunState, scribe.Totals) {}
