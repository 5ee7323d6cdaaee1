package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/scribe"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ scribe.Generator = (*Client)(nil)

// Client implements [scribe.Generator] for the Google Gemini API. A genai
// client is built per call because the API key arrives with each request.
type Client struct {
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens caps the output length of every call.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Gemini [Client].
func New(opts ...Option) *Client {
	c := &Client{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends the input as a single user turn with the instruction as
// the system instruction.
func (c *Client) Generate(ctx context.Context, req scribe.GenerateRequest) (scribe.Generation, error) {
	cfg := &genai.ClientConfig{
		APIKey:     req.Credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(c.baseURL, "/") + "/"}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return scribe.Generation{}, fmt.Errorf("gemini: %w", err)
	}

	resp, err := gc.Models.GenerateContent(ctx, c.model, genai.Text(req.Input), buildConfig(req, c.maxTokens))
	if err != nil {
		return scribe.Generation{}, fmt.Errorf("gemini: %w", err)
	}
	return FromResponse(resp, c.model)
}

func buildConfig(req scribe.GenerateRequest, maxTokens int) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if req.Instruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instruction}},
		}
	}
	return config
}

// FromResponse converts a GenerateContent response to a generation. The
// model falls back to requested when the response does not name a version.
// Thought parts are dropped. Exported for testing.
func FromResponse(resp *genai.GenerateContentResponse, requested string) (scribe.Generation, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return scribe.Generation{}, fmt.Errorf("gemini: prompt blocked: %s: %w", resp.PromptFeedback.BlockReason, scribe.ErrNoResult)
		}
		return scribe.Generation{}, fmt.Errorf("gemini: response has no candidates: %w", scribe.ErrNoResult)
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		text.WriteString(p.Text)
	}

	gen := scribe.Generation{
		Text:  text.String(),
		Model: resp.ModelVersion,
	}
	if gen.Model == "" {
		gen.Model = requested
	}
	if u := resp.UsageMetadata; u != nil {
		gen.InputTokens = int(u.PromptTokenCount)
		gen.OutputTokens = int(u.CandidatesTokenCount)
	}
	return gen, nil
}
