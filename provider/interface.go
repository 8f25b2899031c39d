// Package provider implements model.Provider for the supported generation backends.
//
// Every backend is called synchronously and exactly once per Complete call: SDK-level
// retries are disabled so that a failed request surfaces immediately as an error and
// the caller decides what the user sees.
//
// # Architecture
//
//   - model.Provider defines the contract (interface)
//   - provider.OpenRouterProvider and provider.OpenAIProvider use openai-go
//   - provider.AnthropicProvider uses anthropic-sdk-go
//   - provider.OllamaProvider wraps ollama.Client
//   - provider.NewProvider() factory creates providers from config
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOpenRouter,
//	    BaseURL: "https://openrouter.ai/api/v1",
//	    Model:   "qwen/qwen3-0.6b-04-28:free",
//	    APIKey:  key,
//	})
//	if err != nil {
//	    // handle error
//	}
//	completion, err := p.Complete(ctx, messages)
package provider

import "net/http"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama

	// HTTPClient overrides the transport; nil uses the SDK default.
	HTTPClient *http.Client
}
