package ui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	logoStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	logoBold  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	leadStyle = lipgloss.NewStyle().Foreground(colorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)
	footerStyle = lipgloss.NewStyle().
			Background(colorMantle)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(colorAccent)

	titleStyle       = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	nameStyle        = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	birthdateStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	descriptionStyle = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle      = lipgloss.NewStyle().Background(colorSurface0)
	activeItemStyle  = lipgloss.NewStyle().Background(colorAccent).Foreground(colorMantle).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	errorStyle       = lipgloss.NewStyle().Foreground(colorError)
	darkSideStyle    = lipgloss.NewStyle().Foreground(colorDark)
	lightSideStyle   = lipgloss.NewStyle().Foreground(colorLight)
	linkStyle        = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)
