package model

import "context"

// Provider abstracts text-generation backends (OpenAI-compatible, Anthropic, Ollama)
// behind a single synchronous chat-completion call.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the pipeline consumes
// the interface without importing any provider SDK.
type Provider interface {
	// Complete sends the role-tagged blocks and returns the first completion choice.
	// Implementations must not retry; a failed attempt is returned as an error.
	Complete(ctx context.Context, messages []Message) (Completion, error)

	// GetModel returns the model name used for API calls.
	GetModel() string

	// GetDisplayName returns the model name formatted for display.
	// For OpenRouter, this strips the vendor prefix (e.g., "qwen/qwen3-0.6b-04-28:free" → "qwen3-0.6b-04-28:free").
	GetDisplayName() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// Completion is the first choice of a provider response.
// Refusal is set when the provider declined to answer; Content may then be empty.
type Completion struct {
	Content string
	Refusal string
}

// Refused reports whether the provider flagged the response as a refusal.
func (c Completion) Refused() bool {
	return c.Refusal != ""
}
