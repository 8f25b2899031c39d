package testutil

import (
	"fmt"
	"time"

	"wtldr/model"
)

// FixtureBase is the timestamp of the first message produced by GroupMessages.
var FixtureBase = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

// TestPrompt returns a system + user prompt pair for provider tests
func TestPrompt() []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: "Summarize the chat."},
		{Role: model.RoleUser, Content: "alice: hi\nbob: hello"},
	}
}

// GroupMessages returns n plain-text messages in one guild, one minute apart and
// oldest first, alternating between two senders.
func GroupMessages(platform, guild string, n int) []model.StoredMessage {
	msgs := make([]model.StoredMessage, n)
	for i := range msgs {
		user := "u1"
		name := "alice"
		if i%2 == 1 {
			user = "u2"
			name = "bob"
		}
		msgs[i] = model.StoredMessage{
			ID:        fmt.Sprintf("m%03d", i),
			Platform:  platform,
			GuildID:   guild,
			UserID:    user,
			Username:  name,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: FixtureBase.Add(time.Duration(i) * time.Minute),
		}
	}
	return msgs
}
