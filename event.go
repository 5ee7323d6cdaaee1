package scribe

// Reserved event names. Step events are named by their Step.EventName.
const (
	EventNameError    = "error"
	EventNameComplete = "complete"
)

// Event is a sealed interface representing one unit of a run's output stream.
// Events are delivered in emission order. EventComplete is terminal; a fatal
// EventError is the last event of a run that did not complete.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
	// Name returns the stream discriminator used on the wire.
	Name() string
}

// EventStep announces a successfully completed step.
type EventStep struct {
	EventName string
	ResultKey string
	Text      string
	Usage     Usage
}

func (EventStep) event() {}

// Name returns the step's event name.
func (e EventStep) Name() string { return e.EventName }

// EventError reports a failure. Step is the EventName of the originating step
// and is empty for run-level failures such as a missing credential. Fatal
// errors end the stream without an EventComplete.
type EventError struct {
	Step    string
	Message string
	Fatal   bool
}

func (EventError) event() {}

// Name returns EventNameError.
func (EventError) Name() string { return EventNameError }

// EventComplete signals that every step of the plan was attempted.
type EventComplete struct{}

func (EventComplete) event() {}

// Name returns EventNameComplete.
func (EventComplete) Name() string { return EventNameComplete }

// Interface compliance checks.
var (
	_ Event = EventStep{}
	_ Event = EventError{}
	_ Event = EventComplete{}
)
