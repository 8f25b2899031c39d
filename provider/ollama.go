package provider

import (
	"context"
	"fmt"
	"net/http"

	"wtldr/model"
	"wtldr/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. If empty, defaults to "http://localhost:11434".
//   - model: The model name to use. If empty, defaults to "qwen3:0.6b".
func NewOllamaProvider(baseURL, model string, httpClient *http.Client) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

// Complete implements model.Provider. Ollama has no refusal signal, so only Content is set.
func (p *OllamaProvider) Complete(ctx context.Context, messages []model.Message) (model.Completion, error) {
	reply, err := p.client.Chat(ctx, ConvertToOllamaMessages(messages))
	if err != nil {
		return model.Completion{}, fmt.Errorf("Ollama completion failed: %w", err)
	}
	return model.Completion{Content: reply.Content}, nil
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// GetDisplayName is the model name; Ollama has no vendor prefix.
func (p *OllamaProvider) GetDisplayName() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
