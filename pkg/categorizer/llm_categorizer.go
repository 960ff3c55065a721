package categorizer

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"brecha/internal/catalog"

	log "github.com/sirupsen/logrus"
)

// Completer sends one prompt to a language model and returns its text reply.
// A non-nil error means the call itself failed (network, auth, quota, provider).
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RetryPolicy bounds the attempts made for transport failures.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns 3 attempts spaced 2 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// WaitFunc pauses between attempts. It returns early with ctx.Err() when ctx
// is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default WaitFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Option configures an LLMCategorizer.
type Option func(*LLMCategorizer)

// WithRetryPolicy overrides DefaultRetryPolicy. MaxAttempts below 1 is raised to 1.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *LLMCategorizer) { c.policy = p }
}

// WithWaitFunc replaces SleepContext, typically with a no-op in tests.
func WithWaitFunc(w WaitFunc) Option {
	return func(c *LLMCategorizer) { c.wait = w }
}

// WithLabelValidation drops labels whose (label, id) pair is not in the catalog.
func WithLabelValidation(enabled bool) Option {
	return func(c *LLMCategorizer) { c.validateLabels = enabled }
}

// LLMCategorizer classifies titles with a language model. It holds no
// per-request state and is safe for concurrent use.
type LLMCategorizer struct {
	client         Completer
	catalog        *catalog.Catalog
	policy         RetryPolicy
	wait           WaitFunc
	validateLabels bool
}

// NewLLMCategorizer creates a categorizer over cat using client for completions.
func NewLLMCategorizer(client Completer, cat *catalog.Catalog, opts ...Option) *LLMCategorizer {
	c := &LLMCategorizer{
		client:  client,
		catalog: cat,
		policy:  DefaultRetryPolicy(),
		wait:    SleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.MaxAttempts < 1 {
		c.policy.MaxAttempts = 1
	}
	if c.policy.Delay < 0 {
		c.policy.Delay = 0
	}
	if c.wait == nil {
		c.wait = SleepContext
	}
	return c
}

// Policy returns the effective retry policy.
func (c *LLMCategorizer) Policy() RetryPolicy { return c.policy }

// Classify assigns categories to title. Expected failures (transport errors
// after all attempts, unparseable replies, cancellation) come back as a
// degraded Result with a nil error; the error return is reserved for invalid
// input and for a categorizer built without a client.
//
// Only transport failures are retried. A reply that cannot be parsed ends the
// call immediately, since the same prompt is unlikely to fix it.
func (c *LLMCategorizer) Classify(ctx context.Context, title string) (*Result, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if c.client == nil {
		return nil, errors.New("LLM categorizer is not initialized with a completion client")
	}

	prompt := BuildPrompt(title, c.catalog)
	maxAttempts := c.policy.MaxAttempts

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return cancelled(err, attempt), nil
		}

		log.Infof("Classification attempt %d/%d", attempt, maxAttempts)
		text, err := c.client.Complete(ctx, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr, attempt), nil
			}
			lastErr = err
			log.Errorf("Attempt %d failed: %v", attempt, err)
			if attempt < maxAttempts {
				if werr := c.wait(ctx, c.policy.Delay); werr != nil {
					return cancelled(werr, attempt), nil
				}
			}
			continue
		}

		payload, err := Extract(text)
		if err != nil {
			var merr *MalformedResponseError
			if !errors.As(err, &merr) {
				return nil, err
			}
			log.Warnf("Invalid JSON response on attempt %d: %s", attempt, merr.Reason)
			return newDegraded(ErrorKindMalformedResponse, ErrMsgMalformed, merr.Reason, merr.Raw), nil
		}

		labels := payload.Labels
		if c.validateLabels {
			var dropped []Label
			labels, dropped = c.knownLabels(labels)
			for _, l := range dropped {
				log.Warnf("Dropping label not in catalog: label=%q id=%d", l.Label, l.ID)
			}
			if len(labels) == 0 && len(dropped) > 0 {
				return newDegraded(ErrorKindUnknownLabels, ErrMsgNoKnownCategory, "all returned labels were outside the catalog", text), nil
			}
		}

		log.Infof("Classification successful on attempt %d (%d labels)", attempt, len(labels))
		return newSuccess(labels), nil
	}

	detail := "no attempt was made"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return newDegraded(ErrorKindTransport, ErrMsgNoResponse, detail, ""), nil
}

func (c *LLMCategorizer) knownLabels(labels []Label) (kept, dropped []Label) {
	kept = make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.IsSentinel() || c.catalog.Contains(l.Label, l.ID) {
			kept = append(kept, l)
			continue
		}
		dropped = append(dropped, l)
	}
	return kept, dropped
}

func cancelled(err error, attempt int) *Result {
	log.Warnf("Classification cancelled before attempt %d completed: %v", attempt, err)
	return newDegraded(ErrorKindCancelled, ErrMsgCancelled, err.Error(), "")
}

// TruncateForLog shortens a title for log lines.
func TruncateForLog(title string, n int) string {
	if utf8.RuneCountInString(title) <= n {
		return title
	}
	runes := []rune(title)
	return string(runes[:n]) + "..."
}

var _ Classifier = (*LLMCategorizer)(nil)
