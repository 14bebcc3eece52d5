package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/starfolk/internal/route"
)

const (
	minFeaturedWidth = 22
	maxFeaturedWidth = 34
)

func (a *App) View() string {
	if a.quitting {
		return "May the Force be with you.\n"
	}
	header := a.renderHeader()
	status := RenderStatusBar(a)
	footer := RenderFooter(a)
	bodyHeight := max(0, a.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))

	leftW, rightW := a.columns()
	spin := a.spinner.View()
	left := a.panel(a.featured.View(leftW-4, a.focus == focusFeatured, spin), leftW, bodyHeight, a.focus == focusFeatured)
	right := a.panel(a.mainView(rightW-4, bodyHeight-2, spin), rightW, bodyHeight, a.focus == focusMain)
	body := fitHeight(lipgloss.JoinHorizontal(lipgloss.Top, left, right), bodyHeight)

	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, a.height))
	return appStyle.Width(max(1, a.width)).MaxWidth(max(1, a.width)).Render(view)
}

func (a *App) mainView(width, height int, spin string) string {
	switch a.view.Screen {
	case route.Search:
		return a.list.View(width, height, a.focus == focusMain, spin)
	case route.Profile:
		return a.profile.View(spin)
	case route.About:
		return aboutView(width)
	default:
		return homeView(width)
	}
}

func (a *App) renderHeader() string {
	logo := logoStyle.Render("Star") + logoBold.Render("Folk") + leadStyle.Render(" | All the characters. One galaxy")
	search := a.search.View()
	logoW := ansi.StringWidth(logo)
	searchW := ansi.StringWidth(search)
	gap := 1
	if logoW+searchW+1 < a.width {
		gap = a.width - logoW - searchW
	}
	line := ansi.Truncate(logo+strings.Repeat(" ", gap)+search, max(1, a.width), "")
	return headerBarStyle.Width(max(1, a.width)).MaxWidth(max(1, a.width)).Render(line)
}

func (a *App) panel(content string, width, height int, focused bool) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	inner := max(1, height-2)
	return style.Width(max(1, width-2)).Height(inner).MaxHeight(height).Render(fitHeight(content, inner))
}

func (a *App) columns() (int, int) {
	left := min(maxFeaturedWidth, max(minFeaturedWidth, a.width/4))
	return left, max(10, a.width-left)
}

// layout propagates the terminal size to components that cache it.
func (a *App) layout() {
	a.search.SetWidth(max(20, a.width/2-4))
	_, rightW := a.columns()
	// header, status, footer, panel border, back hint
	a.profile.SetSize(max(10, rightW-4), max(1, a.height-3-2-1))
}
