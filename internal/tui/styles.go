package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle      = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	resolvedStyle = lipgloss.NewStyle().Faint(true)
	pendingStyle  = lipgloss.NewStyle()

	signedInBadgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	signedOutBadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)
