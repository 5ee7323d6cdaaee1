// Package gemini implements [scribe.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating a generation
// request into a single GenerateContent call.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 65536
)
