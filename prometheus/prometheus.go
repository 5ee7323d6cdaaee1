// Package prometheus implements [scribe.Recorder] with Prometheus
// collectors.
package prometheus

import (
	"github.com/fwojciec/scribe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scribe"

// Interface compliance check.
var _ scribe.Recorder = (*Recorder)(nil)

// Recorder counts steps, tokens, cost and finished runs.
type Recorder struct {
	steps    *prometheus.CounterVec
	failures *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	cost     prometheus.Counter
	unpriced *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// New registers the collectors on reg and returns a Recorder.
// It panics if the collectors are already registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_completed_total",
			Help:      "Steps that produced a result, by step event name.",
		}, []string{"step"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_failed_total",
			Help:      "Steps whose generation call failed, by step event name.",
		}, []string{"step"}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed, by model and direction.",
		}, []string{"model", "direction"}),
		cost: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimated_cost_usd_total",
			Help:      "Estimated spend in USD across priced models.",
		}),
		unpriced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unpriced_steps_total",
			Help:      "Completed steps whose model has no price entry.",
		}, []string{"model"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs, by final state.",
		}, []string{"state"}),
	}
}

// StepCompleted records a successful step.
func (r *Recorder) StepCompleted(step string, u scribe.Usage) {
	r.steps.WithLabelValues(step).Inc()
	r.tokens.WithLabelValues(u.Model, "input").Add(float64(u.InputTokens))
	r.tokens.WithLabelValues(u.Model, "output").Add(float64(u.OutputTokens))
	if u.Cost.Known {
		r.cost.Add(u.Cost.USD)
	} else {
		r.unpriced.WithLabelValues(u.Model).Inc()
	}
}

// StepFailed records a failed step.
func (r *Recorder) StepFailed(step string) {
	r.failures.WithLabelValues(step).Inc()
}

// RunFinished records the final state of a run.
func (r *Recorder) RunFinished(state scribe.RunState, _ scribe.Totals) {
	r.runs.WithLabelValues(state.String()).Inc()
}
