package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (Cyan) reads well on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Gray) keeps descriptions in the background
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// PromptStyle marks the practice prompt.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	// ReplyStyle frames tutor replies in the practice session.
	ReplyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
