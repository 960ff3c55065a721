package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"brecha/internal/catalog"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 1000

// Sentinel label returned by the model when no category applies.
const (
	SentinelLabel         = catalog.SentinelName
	SentinelID            = 0
	SentinelJustification = "El texto no es suficiente o no coincide con ninguna categoría."
)

// Error messages carried by degraded results.
const (
	ErrMsgNoResponse      = "no response obtained after retries"
	ErrMsgMalformed       = "model response is not valid structured data"
	ErrMsgCancelled       = "classification cancelled"
	ErrMsgNoKnownCategory = "model returned no known categories"
)

// ErrInvalidInput is returned for empty, whitespace-only or oversized titles.
// No remote call is made when it is returned.
var ErrInvalidInput = errors.New("invalid input")

// Classifier assigns catalog categories to a project title.
type Classifier interface {
	Classify(ctx context.Context, title string) (*Result, error)
}

// Label is one category assigned by the model.
type Label struct {
	Label         string  `json:"label"`
	ID            int     `json:"id"`
	Confidence    float64 `json:"confianza"`
	Justification string  `json:"justificacion"`
}

// IsSentinel reports whether the label means "no category applies".
func (l Label) IsSentinel() bool {
	return l.Label == SentinelLabel && l.ID == SentinelID
}

// ErrorKind classifies why a result is degraded.
type ErrorKind string

const (
	ErrorKindTransport         ErrorKind = "transport"
	ErrorKindMalformedResponse ErrorKind = "malformed_response"
	ErrorKindCancelled         ErrorKind = "cancelled"
	ErrorKindUnknownLabels     ErrorKind = "unknown_labels"
)

// Result is either a success (Error nil) or a degraded outcome (Labels empty,
// Error set). Callers must branch on Error, not on len(Labels).
type Result struct {
	Labels      []Label   `json:"labels"`
	Error       *string   `json:"error"`
	ErrorDetail *string   `json:"detalle_error"`
	RawResponse *string   `json:"raw_response"`
	ErrorKind   ErrorKind `json:"error_kind,omitempty"`
}

// Degraded reports whether the classification failed.
func (r *Result) Degraded() bool { return r.Error != nil }

func newSuccess(labels []Label) *Result {
	if labels == nil {
		labels = []Label{}
	}
	return &Result{Labels: labels}
}

func newDegraded(kind ErrorKind, msg, detail, raw string) *Result {
	r := &Result{Labels: []Label{}, Error: &msg, ErrorKind: kind}
	if detail != "" {
		r.ErrorDetail = &detail
	}
	if raw != "" {
		r.RawResponse = &raw
	}
	return r
}

// NormalizeTitle trims title and enforces the accepted length.
func NormalizeTitle(title string) (string, error) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxTitleLength)
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", fmt.Errorf("%w: project title cannot be empty", ErrInvalidInput)
	}
	return trimmed, nil
}
