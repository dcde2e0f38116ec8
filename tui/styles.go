package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("53")).
			Padding(0, 1)

	sessionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	userBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	placardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	kindBadges = map[string]lipgloss.Style{
		"user_provided":  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"retrieved":      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"virtual_try_on": lipgloss.NewStyle().Foreground(lipgloss.Color("171")),
	}
)

// newMarkdownRenderer builds a glamour renderer sized to the viewport,
// picking the style that matches the terminal background.
func newMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}
