package services

import (
	"context"
	"fmt"

	"brecha/internal/config"
	"brecha/internal/costtracker"

	log "github.com/sirupsen/logrus"
)

// ProviderStatus represents the operational status of a model provider.
type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota // Default zero value
	ProviderStatusActive                         // Provider is operational
	ProviderStatusDisabled                       // Provider is not configured
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// CompletionService sends a single prompt to a language model and returns its text reply.
// Implementations are safe for concurrent use.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Status() ProviderStatus
	Name() string      // Provider name (e.g., "openai", "gemini")
	ModelName() string // Specific model used
	Close() error
}

// NewCompletionService builds the provider named by cfg.LLM.Provider.
func NewCompletionService(ctx context.Context, cfg *config.Config, tracker costtracker.CostTracker) (CompletionService, error) {
	if tracker == nil {
		tracker = costtracker.NewNoop()
	}

	var (
		svc CompletionService
		err error
	)
	switch cfg.LLM.Provider {
	case "gemini":
		svc, err = NewGeminiProvider(ctx, cfg.LLM.APIKey, cfg.LLM.ModelName, cfg.LLM.MaxOutputTokens, tracker)
	case "openai":
		svc, err = NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.ModelName, cfg.LLM.MaxOutputTokens, tracker)
	case "anthropic":
		svc, err = NewAnthropicProvider(cfg.LLM.APIKey, cfg.LLM.ModelName, cfg.LLM.MaxOutputTokens, tracker)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("Completion provider %s initialized with model %s", svc.Name(), svc.ModelName())
	return svc, nil
}

// recordUsage reports token usage of one call. Failures are logged, never returned.
func recordUsage(ctx context.Context, tracker costtracker.CostTracker, provider, model string, input, output int) {
	if tracker == nil {
		return
	}
	event := costtracker.CostEvent{
		Operation:    "classify",
		Provider:     provider,
		Model:        model,
		InputTokens:  input,
		OutputTokens: output,
	}
	if err := tracker.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for %s/%s: %v", provider, model, err)
	}
}
