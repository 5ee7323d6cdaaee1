package mock

import (
	"sync"

	"github.com/fwojciec/scribe"
)

// Interface compliance checks.
var (
	_ scribe.Sink     = (*Sink)(nil)
	_ scribe.Recorder = (*Recorder)(nil)
)

// Sink records every emitted event. EmitFn, when set, runs after the event
// is recorded and its error is returned from Emit. Sink is safe for
// concurrent use.
type Sink struct {
	EmitFn func(scribe.Event) error

	mu     sync.Mutex
	events []scribe.Event
}

// Emit records e and delegates to EmitFn if set.
func (s *Sink) Emit(e scribe.Event) error {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	if s.EmitFn == nil {
		return nil
	}
	return s.EmitFn(e)
}

// Events returns a copy of the recorded events in emission order.
func (s *Sink) Events() []scribe.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scribe.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Recorder is a test double for scribe.Recorder. Nil function fields are
// no-ops because engines call every method on every run.
type Recorder struct {
	StepCompletedFn func(step string, u scribe.Usage)
	StepFailedFn    func(step string)
	RunFinishedFn   func(state scribe.RunState, t scribe.Totals)
}

// StepCompleted delegates to StepCompletedFn.
func (r *Recorder) StepCompleted(step string, u scribe.Usage) {
	if r.StepCompletedFn != nil {
		r.StepCompletedFn(step, u)
	}
}

// StepFailed delegates to StepFailedFn.
func (r *Recorder) StepFailed(step string) {
	if r.StepFailedFn != nil {
		r.StepFailedFn(step)
	}
}

// RunFinished delegates to RunFinishedFn.
func (r *Recorder) RunFinished(state scribe.RunState, t scribe.Totals) {
	if r.RunFinishedFn != nil {
		r.RunFinishedFn(state, t)
	}
}
