// Package openai implements [scribe.Generator] for the OpenAI Chat
// Completions API using the official SDK.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultModel is a search-enabled model, so the research step can cite
// current sources.
const DefaultModel = "gpt-4o-mini-search-preview"

// Interface compliance check.
var _ scribe.Generator = (*Client)(nil)

// Client implements [scribe.Generator]. The API key is supplied per request,
// so one Client serves every caller.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
	client     openai.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model requested for every call.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a [Client]. The SDK's automatic retries are disabled; a
// failed call fails its step.
func New(opts ...Option) *Client {
	c := &Client{model: DefaultModel}
	for _, o := range opts {
		o(c)
	}

	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(c.baseURL, "/")+"/"))
	}
	if c.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(c.httpClient))
	}
	c.client = openai.NewClient(reqOpts...)
	return c
}

// Generate sends the instruction as the system message and the input as the
// user message.
func (c *Client) Generate(ctx context.Context, req scribe.GenerateRequest) (scribe.Generation, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
			openai.UserMessage(req.Input),
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithAPIKey(req.Credential))
	if err != nil {
		return scribe.Generation{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return scribe.Generation{}, fmt.Errorf("openai: response has no choices: %w", scribe.ErrNoResult)
	}

	return scribe.Generation{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}
