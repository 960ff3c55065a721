package services

import (
	"context"
	"errors"
	"fmt"

	"brecha/internal/costtracker"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// chatCompleter is the part of *openai.Client the provider uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements CompletionService using the OpenAI chat API or a compatible endpoint.
type OpenAIProvider struct {
	client    chatCompleter
	model     string
	maxTokens int
	tracker   costtracker.CostTracker
}

// NewOpenAIProvider creates an OpenAI completion provider. baseURL is optional.
func NewOpenAIProvider(apiKey, baseURL, modelID string, maxOutputTokens int, tracker costtracker.CostTracker) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key not provided")
	}
	if modelID == "" {
		return nil, errors.New("openai model name not provided")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
		log.Infof("OpenAI provider using custom base URL %s", baseURL)
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		model:     modelID,
		maxTokens: maxOutputTokens,
		tracker:   tracker,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", errors.New("openai provider is not initialized")
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: p.maxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	recordUsage(ctx, p.tracker, p.Name(), p.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (p *OpenAIProvider) Close() error { return nil }

var _ CompletionService = (*OpenAIProvider)(nil)
