package tldr

import (
	"fmt"
	"slices"
)

// Options is the immutable configuration of a Pipeline.
type Options struct {
	DefaultCount int
	MaxCount     int
	Prompt       string

	// EnabledGuilds restricts the command to the listed guilds, given either as
	// "platform:guild" or as a bare guild id. Empty enables every guild.
	EnabledGuilds []string
}

func (o Options) Validate() error {
	if o.DefaultCount < 1 {
		return fmt.Errorf("default count must be positive, got %d", o.DefaultCount)
	}
	if o.MaxCount < o.DefaultCount {
		return fmt.Errorf("max count %d is below default count %d", o.MaxCount, o.DefaultCount)
	}
	return nil
}

// GuildEnabled reports whether the command may run in the given guild.
func (o Options) GuildEnabled(platform, guildID string) bool {
	if len(o.EnabledGuilds) == 0 {
		return true
	}
	return slices.Contains(o.EnabledGuilds, platform+":"+guildID) ||
		slices.Contains(o.EnabledGuilds, guildID)
}
