package anthropic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/sse"
)

// message accumulates a streamed response.
type message struct {
	model        string
	text         strings.Builder
	inputTokens  int
	outputTokens int
	started      bool
	stopped      bool
}

// readMessage consumes frames until message_stop and returns the generation.
func readMessage(r *sse.Reader) (scribe.Generation, error) {
	var m message
	for !m.stopped {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return scribe.Generation{}, errors.New("anthropic: unexpected end of stream")
		}
		if err != nil {
			return scribe.Generation{}, fmt.Errorf("anthropic: %w", err)
		}
		if err := m.process(f); err != nil {
			return scribe.Generation{}, err
		}
	}
	if !m.started {
		return scribe.Generation{}, fmt.Errorf("anthropic: message_stop before message_start: %w", scribe.ErrNoResult)
	}
	return scribe.Generation{
		Text:         m.text.String(),
		Model:        m.model,
		InputTokens:  m.inputTokens,
		OutputTokens: m.outputTokens,
	}, nil
}

// process folds one frame into m. Unknown event types are ignored per the
// API contract, as are thinking and tool deltas.
func (m *message) process(f sse.Frame) error {
	switch f.Event {
	case "message_start":
		var evt sseMessageStart
		if err := json.Unmarshal([]byte(f.Data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse message_start: %w", err)
		}
		m.started = true
		m.model = evt.Message.Model
		m.inputTokens = evt.Message.Usage.InputTokens
		m.outputTokens = evt.Message.Usage.OutputTokens
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(f.Data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
		}
		if evt.Delta.Type == "text_delta" {
			m.text.WriteString(evt.Delta.Text)
		}
	case "message_delta":
		var evt sseMessageDelta
		if err := json.Unmarshal([]byte(f.Data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse message_delta: %w", err)
		}
		m.outputTokens = evt.Usage.OutputTokens
		if evt.Usage.InputTokens != nil {
			m.inputTokens = *evt.Usage.InputTokens
		}
	case "message_stop":
		m.stopped = true
	case "error":
		var evt sseError
		if err := json.Unmarshal([]byte(f.Data), &evt); err != nil {
			return fmt.Errorf("anthropic: failed to parse error event: %w", err)
		}
		return fmt.Errorf("anthropic: %s: %s", evt.Error.Type, evt.Error.Message)
	}
	return nil
}
