package categorizer

import (
	"encoding/json"
	"strings"
)

const codeFence = "```"

// Payload is the structured reply the prompt asks the model for.
type Payload struct {
	Labels []Label `json:"labels"`
}

// MalformedResponseError reports a model reply that could not be turned into
// a Payload. Raw is the reply exactly as received.
type MalformedResponseError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return "malformed model response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Extract recovers the Payload from a model reply. It tolerates surrounding
// whitespace, one layer of markdown code fencing and commentary around the
// outermost JSON object; anything else is reported, not repaired.
func Extract(raw string) (*Payload, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, &MalformedResponseError{Raw: raw, Reason: "empty response"}
	}

	s = stripCodeFence(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &MalformedResponseError{Raw: raw, Reason: "no JSON object found in response"}
	}

	var wire struct {
		Labels *[]Label `json:"labels"`
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &wire); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Reason: err.Error(), Err: err}
	}
	if wire.Labels == nil {
		return nil, &MalformedResponseError{Raw: raw, Reason: `response has no "labels" array`}
	}

	return &Payload{Labels: *wire.Labels}, nil
}

// stripCodeFence removes an opening fence line (with any language tag) and a
// trailing closing fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, codeFence) {
		return s
	}
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, codeFence)
	return strings.TrimSpace(s)
}
