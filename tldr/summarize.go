package tldr

import (
	"context"

	"wtldr/model"
)

// Result is the text the provider produced, or its refusal explanation.
type Result struct {
	Text    string
	Refused bool
}

// Summarize makes exactly one provider call. Any failure comes back as a
// *GenerationError.
func Summarize(ctx context.Context, provider model.Provider, prompt Prompt) (Result, error) {
	completion, err := provider.Complete(ctx, prompt.Messages())
	if err != nil {
		return Result{}, &GenerationError{Model: provider.GetModel(), Err: err}
	}

	if completion.Refused() {
		return Result{Text: completion.Refusal, Refused: true}, nil
	}
	return Result{Text: completion.Content}, nil
}
