package tldr

import (
	"context"
	"time"
)

// Anchor is the quoted message an invocation starts its window from.
type Anchor struct {
	MessageID string
	Timestamp time.Time
}

// UserRef identifies a participant on a specific platform.
type UserRef struct {
	Platform string
	ID       string
}

// Invocation is the calling context of one command, supplied by the host.
type Invocation interface {
	Platform() string
	// GuildID is empty outside a group context.
	GuildID() string
	// AnchorMessageID is the id of the quoted message, or empty for a recency window.
	AnchorMessageID() string
	// UserArg is the raw participant filter: "platform:id", a bare id or, with a
	// UserResolver, a display name. Empty selects everyone.
	UserArg() string
	Instruction() string
	// Count returns the requested count and whether one was given at all.
	Count() (int, bool)
	// Notify delivers an interim status line while the summary is generated.
	Notify(ctx context.Context, text string) error
}

// Request is the Invocation every host builds.
type Request struct {
	PlatformID string
	Guild      string
	AnchorID   string
	User       string
	Extra      string
	// RequestedCount is nil when the caller did not give a count.
	RequestedCount *int
	// OnNotice receives the interim status line; nil drops it.
	OnNotice func(ctx context.Context, text string) error
}

func (r *Request) Platform() string        { return r.PlatformID }
func (r *Request) GuildID() string         { return r.Guild }
func (r *Request) AnchorMessageID() string { return r.AnchorID }
func (r *Request) UserArg() string         { return r.User }
func (r *Request) Instruction() string     { return r.Extra }

func (r *Request) Count() (int, bool) {
	if r.RequestedCount == nil {
		return 0, false
	}
	return *r.RequestedCount, true
}

func (r *Request) Notify(ctx context.Context, text string) error {
	if r.OnNotice == nil {
		return nil
	}
	return r.OnNotice(ctx, text)
}

// CountOf is a convenience for filling Request.RequestedCount.
func CountOf(n int) *int {
	return &n
}
