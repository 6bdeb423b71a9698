package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used across screens.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	UserMsg   lipgloss.Style
	BotMsg    lipgloss.Style
	Timestamp lipgloss.Style
	FormBox   lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		UserMsg:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		BotMsg:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		FormBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
	}
}
