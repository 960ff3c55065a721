package costtracker

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Price is the per-token cost of a model in USD.
type Price struct {
	InputPerToken  float64
	OutputPerToken float64
}

// CostEvent represents a single model call and its cost.
type CostEvent struct {
	Operation    string // e.g., "classify"
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	AmountUSD    float64
	Details      map[string]interface{}
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
}

// New returns an in-memory tracker that prices events from pricing (keyed by model).
// Events with an explicit AmountUSD keep it; models without a price cost nothing.
func New(pricing map[string]Price) CostTracker {
	p := make(map[string]Price, len(pricing))
	for model, price := range pricing {
		p[model] = price
	}
	return &memoryCostTracker{pricing: p}
}

// NewNoop returns a tracker that discards everything.
func NewNoop() CostTracker {
	return &noopCostTracker{}
}

type memoryCostTracker struct {
	mu      sync.Mutex
	pricing map[string]Price
	total   float64
	events  int
}

func (m *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	if event.AmountUSD == 0 {
		if price, ok := m.pricing[event.Model]; ok {
			event.AmountUSD = float64(event.InputTokens)*price.InputPerToken +
				float64(event.OutputTokens)*price.OutputPerToken
		}
	}

	m.mu.Lock()
	m.total += event.AmountUSD
	m.events++
	m.mu.Unlock()

	log.WithFields(log.Fields{
		"operation":     event.Operation,
		"provider":      event.Provider,
		"model":         event.Model,
		"input_tokens":  event.InputTokens,
		"output_tokens": event.OutputTokens,
		"cost_usd":      event.AmountUSD,
	}).Debug("Recorded model usage")
	return nil
}

func (m *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, nil
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
func (n *noopCostTracker) TotalCost(ctx context.Context) (float64, error)        { return 0, nil }
