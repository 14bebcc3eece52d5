package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#e6e1dc"
	colorMuted    lipgloss.Color = "#8f8a85"
	colorBorder   lipgloss.Color = "#4a4642"
	colorMantle   lipgloss.Color = "#1b1917"
	colorSurface0 lipgloss.Color = "#2a2724"
	colorAccent   lipgloss.Color = "#ff8c00"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#e74c3c"
	colorDark     lipgloss.Color = "#c0392b"
	colorLight    lipgloss.Color = "#5dade2"
)
