package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func RenderFooter(a *App) string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	var parts []string
	for _, kb := range a.keys.Help(a.scope()) {
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, a.width), line, bg)
}

// RenderStatusBar shows the current fragment the way an address bar would,
// or the address prompt while it is open.
func RenderStatusBar(a *App) string {
	if a.focus == focusAddress {
		return renderBar(statusBarStyle, max(1, a.width), "go to: "+a.address.View(), colorSurface0)
	}
	fragment := a.loc.Hash()
	if fragment == "" {
		fragment = "#/"
	}
	msg := fragment + "  ·  " + a.view.String()
	if q := strings.TrimSpace(a.coord.Query()); q != "" {
		msg += "  ·  query " + q
	}
	if a.hasFailure() {
		return renderBar(statusErrBarStyle, max(1, a.width), msg+"  ·  press r to retry", colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, a.width), msg, colorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

func TrimToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
