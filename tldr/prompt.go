package tldr

import (
	"strings"

	"wtldr/markup"
	"wtldr/model"
)

// Prompt is the generation request: one system block, then one user block holding
// the transcript oldest-first.
type Prompt struct {
	System     string
	Transcript string
}

// Assemble builds the prompt from a newest-first window. extra is appended to the
// base instruction verbatim and may be empty.
func Assemble(base, extra string, window []model.StoredMessage) Prompt {
	lines := make([]string, len(window))
	for i, msg := range window {
		lines[len(window)-1-i] = TranscriptLine(msg)
	}

	return Prompt{
		System:     base + extra,
		Transcript: strings.Join(lines, "\n"),
	}
}

// TranscriptLine renders one message as "username: text".
func TranscriptLine(msg model.StoredMessage) string {
	return msg.Username + ": " + markup.Flatten(msg.Content)
}

// Messages returns the role-tagged blocks sent to the provider.
func (p Prompt) Messages() []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: p.System},
		{Role: model.RoleUser, Content: p.Transcript},
	}
}
