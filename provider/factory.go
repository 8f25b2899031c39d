package provider

import (
	"fmt"

	"wtldr/model"
)

// OpenRouter defaults. They are also the configuration defaults, so a config that
// only switches `provider` still carries them.
const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "qwen/qwen3-0.6b-04-28:free"
)

// NewProvider creates the provider named by cfg.Type.
//
// For every other provider type, an API URL or model left at the OpenRouter default
// is cleared so the provider falls back to its own endpoint and model.
func NewProvider(cfg Config) (model.Provider, error) {
	cfg = cfg.withOwnDefaults()

	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.HTTPClient)
	case ProviderTypeOpenRouter:
		return NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

func (c Config) withOwnDefaults() Config {
	if c.Type == ProviderTypeOpenRouter {
		return c
	}
	if c.BaseURL == DefaultOpenRouterURL {
		c.BaseURL = ""
	}
	if c.Model == DefaultOpenRouterModel {
		c.Model = ""
	}
	return c
}

// MapProviderIDToType converts the `provider` config value to a ProviderType.
// Unknown IDs pass through unchanged and NewProvider rejects them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
