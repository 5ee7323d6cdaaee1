package scribe

import (
	"fmt"
	"math"
)

// Cost is a monetary estimate in USD. The zero value is an unknown cost.
//
// USD is kept at full precision for summation; Rounded is for display and
// the wire format only.
type Cost struct {
	USD   float64
	Known bool
}

// KnownCost returns a Cost for a priced model.
func KnownCost(usd float64) Cost {
	return Cost{USD: usd, Known: true}
}

// UnknownCost returns the Cost used when no price exists for a model.
func UnknownCost() Cost {
	return Cost{}
}

// Rounded returns USD rounded to six decimal places.
func (c Cost) Rounded() float64 {
	return roundCost(c.USD)
}

// String formats the cost as "$0.000123", or "N/A" when unknown.
func (c Cost) String() string {
	if !c.Known {
		return "N/A"
	}
	return fmt.Sprintf("$%.6f", c.USD)
}

func roundCost(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Usage tracks token consumption and estimated cost for one completed step.
// It is produced once per successful step and never corrected afterwards.
type Usage struct {
	InputTokens  int
	OutputTokens int
	Model        string
	Cost         Cost
}

// Totals accumulates usage across the steps of one run.
// Unknown costs contribute zero to CostUSD.
type Totals struct {
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Steps        int // successfully completed steps
	Failures     int // isolated step failures
}

// Add folds one step's usage into the totals.
func (t *Totals) Add(u Usage) {
	t.InputTokens += u.InputTokens
	t.OutputTokens += u.OutputTokens
	if u.Cost.Known {
		t.CostUSD += u.Cost.USD
	}
	t.Steps++
}

// Cost returns the cumulative cost as a known Cost.
func (t Totals) Cost() Cost {
	return KnownCost(t.CostUSD)
}
