package tldr

import (
	"context"
	"errors"

	"wtldr/model"
)

// WindowQuerier returns at most criteria.Limit messages matching the criteria,
// newest first, with ties on timestamp broken by descending id.
type WindowQuerier interface {
	QueryMessages(ctx context.Context, criteria model.SelectionCriteria) ([]model.StoredMessage, error)
}

// MessageStore is the read side of the per-guild message log.
type MessageStore interface {
	WindowQuerier
	MessageLookup
}

// Selector computes the message window for one invocation.
type Selector struct {
	store WindowQuerier
}

func NewSelector(store WindowQuerier) *Selector {
	return &Selector{store: store}
}

// Select returns the window newest-first, exactly as the store ordered it.
//
// With an anchor this is the newest Limit messages at or after the anchor, not the
// Limit messages that immediately follow it.
func (s *Selector) Select(ctx context.Context, criteria model.SelectionCriteria) ([]model.StoredMessage, error) {
	if criteria.Platform == "" || criteria.GuildID == "" {
		return nil, errors.New("platform and guild are required")
	}
	if criteria.Limit < 1 {
		return nil, errors.New("limit must be positive")
	}
	return s.store.QueryMessages(ctx, criteria)
}
