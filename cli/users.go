package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"wtldr/model"
	"wtldr/tldr"
)

// SenderLister lists the distinct senders of a guild.
type SenderLister interface {
	Senders(ctx context.Context, platform, guildID string) ([]model.Sender, error)
}

// senderResolver lets --user name a participant by display name.
type senderResolver struct {
	senders SenderLister
}

// ResolveUser matches arg against the guild's senders: an exact user id first, then
// an exact display name, then the best fuzzy display-name match. Numeric arguments
// are ids and never fuzzy-matched. It returns nil when nobody matches.
func (r senderResolver) ResolveUser(ctx context.Context, platform, guildID, arg string) (*tldr.UserRef, error) {
	list, err := r.senders.Senders(ctx, platform, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list senders: %w", err)
	}

	for _, s := range list {
		if s.UserID == arg {
			return &tldr.UserRef{Platform: platform, ID: s.UserID}, nil
		}
	}
	for _, s := range list {
		if strings.EqualFold(s.Username, arg) {
			return &tldr.UserRef{Platform: platform, ID: s.UserID}, nil
		}
	}
	if isNumeric(arg) {
		return nil, nil
	}

	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Username
	}
	matches := fuzzy.Find(arg, names)
	if len(matches) == 0 {
		return nil, nil
	}
	return &tldr.UserRef{Platform: platform, ID: list[matches[0].Index].UserID}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
