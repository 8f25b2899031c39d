package tldr

import (
	"fmt"
	"strings"

	"wtldr/markup"
)

// GroupedReply is the two-part forwarded reply: a status line, then the summary.
type GroupedReply struct {
	Status  string
	Summary string
}

func Compose(count int, summary string, anchored bool) GroupedReply {
	format := statusRecent
	if anchored {
		format = statusAnchored
	}
	return GroupedReply{
		Status:  fmt.Sprintf(format, count),
		Summary: summary,
	}
}

// Markup renders the reply as a forwarded message group for chat platforms.
func (r GroupedReply) Markup() string {
	var b strings.Builder
	b.WriteString("<message forward>")
	b.WriteString("<message>")
	b.WriteString(markup.Escape(r.Status))
	b.WriteString("</message>")
	b.WriteString("<message>")
	b.WriteString(markup.Escape(r.Summary))
	b.WriteString("<br/></message>")
	b.WriteString("</message>")
	return b.String()
}

func (r GroupedReply) String() string {
	return r.Status + "\n\n" + r.Summary
}

func notice(count int, anchored bool) string {
	if anchored {
		return fmt.Sprintf(noticeAnchored, count)
	}
	return fmt.Sprintf(noticeRecent, count)
}
