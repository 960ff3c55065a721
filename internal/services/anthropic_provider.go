package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brecha/internal/costtracker"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// messageCreator is the part of anthropic.MessageService the provider uses.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider implements CompletionService using the Anthropic Messages API.
type AnthropicProvider struct {
	messages  messageCreator
	model     string
	maxTokens int64
	tracker   costtracker.CostTracker
}

// NewAnthropicProvider creates an Anthropic completion provider.
func NewAnthropicProvider(apiKey, model string, maxOutputTokens int, tracker costtracker.CostTracker) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key not provided")
	}
	if model == "" {
		return nil, errors.New("anthropic model name not provided")
	}

	// Anthropic requires max_tokens.
	maxTokens := int64(maxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		messages:  &client.Messages,
		model:     model,
		maxTokens: maxTokens,
		tracker:   tracker,
	}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// ModelName returns the specific model identifier.
func (p *AnthropicProvider) ModelName() string { return p.model }

func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.messages == nil {
		return "", errors.New("anthropic provider is not initialized")
	}

	resp, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	recordUsage(ctx, p.tracker, p.Name(), p.model, int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens))

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Status returns the operational status of the provider.
func (p *AnthropicProvider) Status() ProviderStatus {
	if p.messages == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// Close is a no-op for the Anthropic client.
func (p *AnthropicProvider) Close() error { return nil }

var _ CompletionService = (*AnthropicProvider)(nil)
