package main

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#7B68EE")
	colorSuccess = lipgloss.Color("#50C878")
	colorWarning = lipgloss.Color("#FFB347")
	colorError   = lipgloss.Color("#FF6961")
	colorMuted   = lipgloss.Color("#808080")
	colorTitle   = lipgloss.Color("#C4B5FD")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	styleName  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleOK    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleErr   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleDim   = lipgloss.NewStyle().Foreground(colorMuted)

	stylePreview = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarning).
			Padding(0, 1)
)
