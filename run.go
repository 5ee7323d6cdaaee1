package scribe

import "context"

// RunState is the lifecycle state of a pipeline run.
type RunState int

const (
	StateNotStarted RunState = iota // Before the credential check.
	StateRunning                    // Executing steps.
	StateDraining                   // Ended early on a fatal error or a stopped consumer.
	StateCompleted                  // Every step attempted and EventComplete emitted.
)

// String returns the lowercase state name.
func (s RunState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Report is the final fold of a run. It is returned to the caller that
// started the run and is not part of the event stream.
type Report struct {
	RunID   string
	State   RunState
	Results Results
	Totals  Totals
	Err     error // cause of a Draining state, nil otherwise
}

// Sink receives the events of a run in order. An Emit error ends the run.
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event) error

// Emit calls f.
func (f SinkFunc) Emit(e Event) error { return f(e) }

// Runner executes a plan against a generation backend.
type Runner interface {
	Run(ctx context.Context, plan Plan, credential string, sink Sink) Report
}

// Recorder observes run progress for metrics. Implementations must be safe
// for concurrent use by multiple runs.
type Recorder interface {
	StepCompleted(step string, u Usage)
	StepFailed(step string)
	RunFinished(state RunState, t Totals)
}
