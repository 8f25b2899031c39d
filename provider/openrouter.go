package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"

	"wtldr/model"
)

// OpenRouterProvider implements model.Provider against OpenRouter, which speaks the
// OpenAI chat-completion protocol.
type OpenRouterProvider struct {
	client openai.Client
	model  string
}

// NewOpenRouterProvider creates a new OpenRouter provider instance.
//
// Parameters:
//   - baseURL: OpenRouter API base URL ("https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key
//   - model: model to use, with vendor prefix (can be changed with SetModel)
func NewOpenRouterProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}

	return &OpenRouterProvider{
		client: newOpenAIClient(baseURL, apiKey, httpClient),
		model:  model,
	}, nil
}

func (p *OpenRouterProvider) Complete(ctx context.Context, messages []model.Message) (model.Completion, error) {
	completion, err := completeChat(ctx, p.client, p.model, messages)
	if err != nil {
		return model.Completion{}, fmt.Errorf("OpenRouter completion failed: %w", err)
	}
	return completion, nil
}

// GetModel returns the full model name with vendor prefix for API calls.
// Example: "qwen/qwen3-0.6b-04-28:free"
func (p *OpenRouterProvider) GetModel() string {
	return p.model
}

// GetDisplayName returns the model name with vendor prefix stripped.
// Example: "qwen/qwen3-0.6b-04-28:free" → "qwen3-0.6b-04-28:free"
func (p *OpenRouterProvider) GetDisplayName() string {
	return stripProviderPrefix(p.model)
}

func (p *OpenRouterProvider) SetModel(model string) {
	p.model = model
}

func (p *OpenRouterProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenRouter ping failed: %w", err)
	}
	return nil
}

// stripProviderPrefix removes vendor prefixes from OpenRouter model names.
// "meta-llama/llama-3.2-90b-instruct" → "llama-3.2-90b-instruct"
func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
