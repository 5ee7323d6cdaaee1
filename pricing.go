package scribe

// Rate is a model's price in USD per million tokens.
type Rate struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// PriceTable maps exact model identifiers to rates.
type PriceTable map[string]Rate

// Estimate returns the cost of a call. Models without an entry yield an
// unknown Cost rather than a guess. Estimate is pure.
func (t PriceTable) Estimate(model string, inputTokens, outputTokens int) Cost {
	rate, ok := t[model]
	if !ok {
		return UnknownCost()
	}
	in := float64(inputTokens) / 1_000_000 * rate.Input
	out := float64(outputTokens) / 1_000_000 * rate.Output
	return KnownCost(in + out)
}

// Merge returns a new table with the entries of other overriding t.
func (t PriceTable) Merge(other PriceTable) PriceTable {
	merged := make(PriceTable, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// DefaultPrices returns the built-in price table. Keys are the model
// identifiers reported back by each backend, which may be dated snapshots
// of the requested model.
func DefaultPrices() PriceTable {
	return PriceTable{
		// OpenAI
		"gpt-4o-mini-search-preview-2025-03-11": {Input: 2.5, Output: 10},
		"gpt-4o-search-preview-2025-03-11":      {Input: 2.5, Output: 10},
		"gpt-4o-2024-08-06":                     {Input: 2.5, Output: 10},
		"gpt-4o-mini-2024-07-18":                {Input: 0.15, Output: 0.6},
		"gpt-4.1-2025-04-14":                    {Input: 2, Output: 8},
		"gpt-4.1-mini-2025-04-14":               {Input: 0.4, Output: 1.6},

		// Anthropic
		"claude-sonnet-4-20250514":  {Input: 3, Output: 15},
		"claude-opus-4-20250514":    {Input: 15, Output: 75},
		"claude-3-5-haiku-20241022": {Input: 0.8, Output: 4},

		// Gemini
		"gemini-2.5-pro":   {Input: 1.25, Output: 10},
		"gemini-2.5-flash": {Input: 0.3, Output: 2.5},
	}
}
