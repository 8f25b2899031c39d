package model

import (
	"errors"
	"time"
)

// ErrMessageNotFound reports a lookup of a message id that is not in the log.
var ErrMessageNotFound = errors.New("message not found")

// ErrInvalidMessage reports a message missing one of its required fields.
var ErrInvalidMessage = errors.New("invalid message")

// Role values for prompt blocks sent to a provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a role-tagged content block in a generation request.
type Message struct {
	Role    string
	Content string
}

// StoredMessage is one persisted chat message from the per-group message log.
// Content holds the Satori-style markup body exactly as the chat platform delivered it.
type StoredMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Platform  string    `json:"platform" yaml:"platform"`
	GuildID   string    `json:"guild_id" yaml:"guild_id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Username  string    `json:"username" yaml:"username"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// SelectionCriteria describes one window query against the message log.
//
// Platform and GuildID are required. An empty UserID matches every sender and a nil
// MinTimestamp disables the anchor bound. Limit is always positive.
type SelectionCriteria struct {
	Platform     string
	GuildID      string
	UserID       string
	MinTimestamp *time.Time
	Limit        int
}

// Anchored reports whether the window is bounded below by an anchor message.
func (c SelectionCriteria) Anchored() bool {
	return c.MinTimestamp != nil
}

// Sender is a distinct participant seen in a guild's message log.
type Sender struct {
	UserID   string
	Username string
}
