// Package json encodes scribe events as the JSON payloads carried in the
// data field of server-sent events, and decodes them back.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fwojciec/scribe"
)

// ErrNoContent is returned by UnmarshalEvent for a non-terminal event whose
// payload is empty or "{}". Consumers skip such events.
var ErrNoContent = errors.New("json: no content")

// usageKey is the reserved payload key for step usage.
const usageKey = "usage"

// unknownCost is the wire value of an estimated cost for an unpriced model.
const unknownCost = "unknown"

type usageDTO struct {
	InputTokens   int     `json:"input_tokens"`
	OutputTokens  int     `json:"output_tokens"`
	Model         string  `json:"model"`
	EstimatedCost costDTO `json:"estimated_cost"`
}

// costDTO is a number rounded to six decimals, or the string "unknown".
type costDTO scribe.Cost

func (c costDTO) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return json.Marshal(unknownCost)
	}
	return []byte(strconv.FormatFloat(scribe.Cost(c).Rounded(), 'f', -1, 64)), nil
}

func (c *costDTO) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		// Any string, including the legacy "N/A", means no price was found.
		*c = costDTO(scribe.UnknownCost())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("estimated_cost: %w", err)
	}
	*c = costDTO(scribe.KnownCost(v))
	return nil
}

type errorDTO struct {
	Error string `json:"error"`
	Step  string `json:"step,omitempty"`
	Fatal bool   `json:"fatal,omitempty"`
}

// MarshalEvent returns the wire name and JSON payload of e.
//
// A step payload carries the generated text under the step's result key
// next to a "usage" object. An error payload is {"error": msg} with optional
// "step" and "fatal" fields. A complete payload is {}.
func MarshalEvent(e scribe.Event) (string, []byte, error) {
	switch v := e.(type) {
	case scribe.EventStep:
		if v.ResultKey == "" || v.ResultKey == usageKey {
			return "", nil, fmt.Errorf("json: invalid result key %q for event %s", v.ResultKey, v.EventName)
		}
		payload := map[string]any{
			v.ResultKey: v.Text,
			usageKey: usageDTO{
				InputTokens:   v.Usage.InputTokens,
				OutputTokens:  v.Usage.OutputTokens,
				Model:         v.Usage.Model,
				EstimatedCost: costDTO(v.Usage.Cost),
			},
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return "", nil, fmt.Errorf("json: marshal %s: %w", v.EventName, err)
		}
		return v.EventName, data, nil
	case scribe.EventError:
		data, err := json.Marshal(errorDTO{Error: v.Message, Step: v.Step, Fatal: v.Fatal})
		if err != nil {
			return "", nil, fmt.Errorf("json: marshal error event: %w", err)
		}
		return scribe.EventNameError, data, nil
	case scribe.EventComplete:
		return scribe.EventNameComplete, []byte("{}"), nil
	default:
		return "", nil, fmt.Errorf("json: unknown event type: %T", e)
	}
}

// UnmarshalEvent decodes the payload of an event named name. A complete
// event decodes regardless of its payload. Any other event with an empty
// or "{}" payload yields ErrNoContent.
func UnmarshalEvent(name string, data []byte) (scribe.Event, error) {
	if name == scribe.EventNameComplete {
		return scribe.EventComplete{}, nil
	}
	if isEmpty(data) {
		return nil, ErrNoContent
	}
	if name == scribe.EventNameError {
		var dto errorDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("json: unmarshal error event: %w", err)
		}
		return scribe.EventError{Step: dto.Step, Message: dto.Error, Fatal: dto.Fatal}, nil
	}
	return unmarshalStep(name, data)
}

func unmarshalStep(name string, data []byte) (scribe.Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("json: unmarshal %s: %w", name, err)
	}

	e := scribe.EventStep{EventName: name}
	if raw, ok := fields[usageKey]; ok {
		var u usageDTO
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("json: unmarshal %s usage: %w", name, err)
		}
		e.Usage = scribe.Usage{
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
			Model:        u.Model,
			Cost:         scribe.Cost(u.EstimatedCost),
		}
		delete(fields, usageKey)
	}

	switch len(fields) {
	case 0:
		return nil, fmt.Errorf("json: %s has no result: %w", name, ErrNoContent)
	case 1:
	default:
		return nil, fmt.Errorf("json: %s has %d result fields, want 1", name, len(fields))
	}
	for k, raw := range fields {
		e.ResultKey = k
		if err := json.Unmarshal(raw, &e.Text); err != nil {
			return nil, fmt.Errorf("json: unmarshal %s result %q: %w", name, k, err)
		}
	}
	return e, nil
}

func isEmpty(data []byte) bool {
	d := bytes.TrimSpace(data)
	if len(d) == 0 {
		return true
	}
	var m map[string]json.RawMessage
	if d[0] != '{' || json.Unmarshal(d, &m) != nil {
		return false
	}
	return len(m) == 0
}
