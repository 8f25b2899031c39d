// Package ui renders summaries for the terminal.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	dangerColor  = lipgloss.Color("9")

	// Status line above the summary
	StatusStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Interim notice written while generation runs
	NoticeStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

// FormatPairs formats alternating labels and values on one line.
// Usage: FormatPairs("model", "qwen", "store", "sqlite")
func FormatPairs(parts ...string) string {
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, LabelStyle.Render(parts[i])+" "+parts[i+1])
		}
	}
	return strings.Join(result, "  ")
}
