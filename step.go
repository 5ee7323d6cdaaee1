package scribe

import "fmt"

// InputBuilder derives a step's input text from the results accumulated so
// far. It must not retain the Results beyond the call.
type InputBuilder func(results Results) (string, error)

// Step describes one generation call of a plan. Steps are immutable once the
// plan is built.
type Step struct {
	Input       InputBuilder
	Instruction string // system instruction for the backend
	ResultKey   string // key the generated text is stored under
	EventName   string // stream discriminator announced on completion
}

// Plan is an ordered sequence of steps, fully determined before a run starts.
type Plan []Step

// Validate checks the plan invariants: at least one step, non-empty and
// unique result keys and event names, no reserved event names, and a
// non-nil input builder on every step.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("plan has no steps: %w", ErrValidation)
	}
	keys := make(map[string]struct{}, len(p))
	names := make(map[string]struct{}, len(p))
	for i, s := range p {
		if s.Input == nil {
			return fmt.Errorf("step %d: input builder is nil: %w", i, ErrValidation)
		}
		if s.ResultKey == "" {
			return fmt.Errorf("step %d: result key is empty: %w", i, ErrValidation)
		}
		if s.EventName == "" {
			return fmt.Errorf("step %d: event name is empty: %w", i, ErrValidation)
		}
		if s.EventName == EventNameError || s.EventName == EventNameComplete {
			return fmt.Errorf("step %d: event name %q is reserved: %w", i, s.EventName, ErrValidation)
		}
		if _, ok := keys[s.ResultKey]; ok {
			return fmt.Errorf("step %d: duplicate result key %q: %w", i, s.ResultKey, ErrValidation)
		}
		if _, ok := names[s.EventName]; ok {
			return fmt.Errorf("step %d: duplicate event name %q: %w", i, s.EventName, ErrValidation)
		}
		keys[s.ResultKey] = struct{}{}
		names[s.EventName] = struct{}{}
	}
	return nil
}
