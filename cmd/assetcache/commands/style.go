package commands

import "github.com/charmbracelet/lipgloss"

var (
	green  = lipgloss.Color("#22A06B")
	red    = lipgloss.Color("#D93025")
	yellow = lipgloss.Color("#F59E0B")
	slate  = lipgloss.Color("#667085")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(green)
	missingStyle = lipgloss.NewStyle().Foreground(yellow).Bold(true)
	invalidStyle = lipgloss.NewStyle().Foreground(red).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(slate)
	kindStyle    = lipgloss.NewStyle().Width(13)
	keyStyle     = lipgloss.NewStyle().Width(18)
)
