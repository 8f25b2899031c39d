package ui

import (
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"wtldr/tldr"
)

const (
	defaultWidth = 80
	minWidth     = 20
)

// RenderReply draws a grouped reply as a framed block: the status line centered
// in the header and the summary rendered as markdown below it.
func RenderReply(reply tldr.GroupedReply, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	inner := width - 4

	header := StatusStyle.Render(center(reply.Status, inner))
	body := RenderMarkdown(reply.Summary, inner)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(0, 1).
		Width(width - 2).
		Render(header + "\n\n" + body)
}

// RenderMarkdown renders model output for a terminal of the given width.
// Autolinking stays off so the terminal handles plain URLs itself.
func RenderMarkdown(content string, width int) string {
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)
	return strings.TrimRight(string(rendered), "\n")
}

// RenderNotice styles the interim notice line.
func RenderNotice(text string) string {
	return NoticeStyle.Render(text)
}

// RenderText styles a single-line reply such as a usage error.
func RenderText(text string) string {
	return ErrorStyle.Render(text)
}

// center pads s to width display columns. CJK runes count double.
func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "…")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
