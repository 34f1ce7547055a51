package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#3498db", Dark: "#90caf9"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#7f8c8d", Dark: "#9e9e9e"}
	successColor = lipgloss.Color("#2ecc71")
	warningColor = lipgloss.Color("#f39c12")
	errorColor   = lipgloss.Color("#e74c3c")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Width(10)
	focusedLabelStyle = labelStyle.Foreground(primaryColor).Bold(true)

	valueStyle       = lipgloss.NewStyle()
	placeholderStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)
	focusedButtonStyle  = buttonStyle.BorderForeground(primaryColor).Bold(true)
	disabledButtonStyle = buttonStyle.Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)
