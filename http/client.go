package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/content"
	scribejson "github.com/fwojciec/scribe/json"
	"github.com/fwojciec/scribe/sse"
)

// ErrIncomplete is returned when a stream ends without a complete event.
var ErrIncomplete = errors.New("http: stream ended before completion")

// Client starts runs on a remote server.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Client for the server at baseURL. No timeout is set
// on the default HTTP client because runs stream for minutes.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate posts opts and delivers each decoded event to sink in order.
// Events without content are skipped. Generate returns nil once the complete
// event is delivered, and ErrIncomplete if the stream ends before it.
// Cancelling ctx closes the connection, which the server sees as a consumer
// that stopped reading.
func (c *Client) Generate(ctx context.Context, opts content.Options, sink scribe.Sink) error {
	body, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("http: marshal options: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", sse.ContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http: generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	r := sse.NewReader(resp.Body)
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return ErrIncomplete
		}
		if err != nil {
			return fmt.Errorf("http: read stream: %w", err)
		}

		e, err := scribejson.UnmarshalEvent(f.Event, []byte(f.Data))
		if errors.Is(err, scribejson.ErrNoContent) {
			continue
		}
		if err != nil {
			return fmt.Errorf("http: decode %s: %w", f.Event, err)
		}
		if err := sink.Emit(e); err != nil {
			return fmt.Errorf("http: emit %s: %w", f.Event, err)
		}
		if _, ok := e.(scribe.EventComplete); ok {
			return nil
		}
	}
}

func parseError(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("http: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
		return fmt.Errorf("http: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if e.Details != "" {
		return fmt.Errorf("http: HTTP %d: %s: %s", resp.StatusCode, e.Error, e.Details)
	}
	return fmt.Errorf("http: HTTP %d: %s", resp.StatusCode, e.Error)
}
