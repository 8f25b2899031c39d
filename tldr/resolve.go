package tldr

import (
	"context"
	"errors"
	"strings"

	"wtldr/model"
)

// MessageLookup finds a single logged message by id. It returns an error wrapping
// model.ErrMessageNotFound for unknown ids.
type MessageLookup interface {
	GetMessage(ctx context.Context, id string) (model.StoredMessage, error)
}

// ResolveAnchor turns a quoted message id into an Anchor. An id that is unknown or
// belongs to another guild yields a *UsageError.
func ResolveAnchor(ctx context.Context, lookup MessageLookup, platform, guildID, messageID string) (*Anchor, error) {
	msg, err := lookup.GetMessage(ctx, messageID)
	if errors.Is(err, model.ErrMessageNotFound) {
		return nil, &UsageError{Message: MsgAnchorNotFound}
	}
	if err != nil {
		return nil, err
	}
	if msg.Platform != platform || msg.GuildID != guildID {
		return nil, &UsageError{Message: MsgAnchorNotFound}
	}
	return &Anchor{MessageID: msg.ID, Timestamp: msg.Timestamp}, nil
}

// ParseUserRef parses "platform:id". ok is false when s carries no platform prefix.
func ParseUserRef(s string) (ref UserRef, ok bool) {
	platform, id, found := strings.Cut(s, ":")
	if !found || platform == "" || id == "" {
		return UserRef{}, false
	}
	return UserRef{Platform: platform, ID: id}, true
}

// TargetUser interprets a user argument without a resolver: a bare id is taken to
// be on the invoking platform.
func TargetUser(platform, arg string) *UserRef {
	if arg == "" {
		return nil
	}
	if ref, ok := ParseUserRef(arg); ok {
		return &ref
	}
	return &UserRef{Platform: platform, ID: arg}
}

// UserResolver maps a user argument without a platform prefix to a participant of
// the guild. It returns nil, nil when nobody matches.
type UserResolver interface {
	ResolveUser(ctx context.Context, platform, guildID, arg string) (*UserRef, error)
}
