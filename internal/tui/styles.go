package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	cursorCellStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("212"))

	pickedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	openRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	cancelledStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240"))

	leaveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	overCapStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	bandNormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	bandWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	bandOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	draftBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	publishedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	pendingBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))
)
