package scribe_test

import (
	"testing"

	"github.com/fwojciec/scribe"
	"github.com/stretchr/testify/assert"
)

func TestCost_ZeroValueIsUnknown(t *testing.T) {
	t.Parallel()
	var c scribe.Cost
	assert.False(t, c.Known)
	assert.Equal(t, "N/A", c.String())
}

func TestCost_Rounded(t *testing.T) {
	t.Parallel()
	c := scribe.KnownCost(0.0000123456789)
	assert.Equal(t, 0.000012, c.Rounded())
	assert.Equal(t, 0.0000123456789, c.USD, "full precision retained")
	assert.Equal(t, "$0.000012", c.String())
}

func TestTotals_Add(t *testing.T) {
	t.Parallel()

	t.Run("sums tokens and known costs", func(t *testing.T) {
		t.Parallel()
		var tot scribe.Totals
		tot.Add(scribe.Usage{InputTokens: 10, OutputTokens: 20, Cost: scribe.KnownCost(0.5)})
		tot.Add(scribe.Usage{InputTokens: 1, OutputTokens: 2, Cost: scribe.KnownCost(0.25)})
		assert.Equal(t, 11, tot.InputTokens)
		assert.Equal(t, 22, tot.OutputTokens)
		assert.InDelta(t, 0.75, tot.CostUSD, 1e-12)
		assert.Equal(t, 2, tot.Steps)
	})

	t.Run("unknown cost contributes zero", func(t *testing.T) {
		t.Parallel()
		var tot scribe.Totals
		tot.Add(scribe.Usage{InputTokens: 100, OutputTokens: 100, Cost: scribe.UnknownCost()})
		assert.Equal(t, 100, tot.InputTokens)
		assert.Equal(t, 100, tot.OutputTokens)
		assert.Zero(t, tot.CostUSD)
		assert.Equal(t, 1, tot.Steps)
	})
}
