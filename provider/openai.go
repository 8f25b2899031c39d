package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"wtldr/model"
)

// errNoChoices is returned when an OpenAI-compatible endpoint answers 2xx without choices.
var errNoChoices = errors.New("response contained no choices")

// OpenAIProvider implements model.Provider against the OpenAI API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: model to use (default: "gpt-4o-mini")
func NewOpenAIProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		client: newOpenAIClient(baseURL, apiKey, httpClient),
		model:  model,
	}, nil
}

// Complete implements model.Provider with a single non-streaming chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []model.Message) (model.Completion, error) {
	completion, err := completeChat(ctx, p.client, p.model, messages)
	if err != nil {
		return model.Completion{}, fmt.Errorf("OpenAI completion failed: %w", err)
	}
	return completion, nil
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

func (p *OpenAIProvider) GetDisplayName() string {
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping implements model.Provider.Ping by listing models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

func newOpenAIClient(baseURL, apiKey string, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...)
}

// completeChat issues one chat completion and returns its first choice.
// Shared by every OpenAI-compatible provider.
func completeChat(ctx context.Context, client openai.Client, modelName string, messages []model.Message) (model.Completion, error) {
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(modelName),
	})
	if err != nil {
		return model.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return model.Completion{}, errNoChoices
	}

	msg := resp.Choices[0].Message
	return model.Completion{
		Content: msg.Content,
		Refusal: msg.Refusal,
	}, nil
}
