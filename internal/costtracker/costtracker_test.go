package costtracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker_PricesEvents(t *testing.T) {
	ctx := context.Background()
	tracker := New(map[string]Price{
		"gemini-1.5-flash": {InputPerToken: 0.001, OutputPerToken: 0.002},
	})

	require.NoError(t, tracker.RecordCost(ctx, CostEvent{Model: "gemini-1.5-flash", InputTokens: 100, OutputTokens: 50}))
	require.NoError(t, tracker.RecordCost(ctx, CostEvent{Model: "unpriced", InputTokens: 1000, OutputTokens: 1000}))
	require.NoError(t, tracker.RecordCost(ctx, CostEvent{Model: "unpriced", AmountUSD: 0.5}))

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.1+0.1+0.5, total, 1e-9)
}

func TestMemoryTracker_Concurrent(t *testing.T) {
	ctx := context.Background()
	tracker := New(map[string]Price{"m": {InputPerToken: 1}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tracker.RecordCost(ctx, CostEvent{Model: "m", InputTokens: 2})
		}()
	}
	wg.Wait()

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100, total, 1e-9)
}

func TestNoopTracker(t *testing.T) {
	ctx := context.Background()
	tracker := NewNoop()
	require.NoError(t, tracker.RecordCost(ctx, CostEvent{AmountUSD: 3}))

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
