package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
	"github.com/jask/starfolk/internal/coordinator"
	"github.com/jask/starfolk/internal/load"
)

const (
	listIdleText    = "Enter a search term to find characters"
	listLoadingText = "Searching characters..."
	listErrorText   = "Error searching characters. Please try again."
)

// SelectableList shows search results for the query it is given.
type SelectableList struct {
	loader *load.Loader[string, []catalog.Summary]
	cursor int
}

func NewSelectableList(ctx context.Context, gw catalog.Gateway, log *zap.Logger, abort bool) *SelectableList {
	fetch := func(ctx context.Context, q string) ([]catalog.Summary, error) {
		return gw.Search(ctx, q)
	}
	opts := loaderOptions[string, []catalog.Summary](log.Named("loader.search"), abort)
	opts = append(opts,
		load.WithIdle[string, []catalog.Summary](func(q string) bool { return q == "" }),
		load.WithFailure[string, []catalog.Summary](func(string, error) string { return listErrorText }),
	)
	return &SelectableList{loader: load.New(ctx, "search", fetch, opts...)}
}

// SetQuery triggers a search for the trimmed query. Blank queries leave the
// list idle.
func (l *SelectableList) SetQuery(q string) tea.Cmd {
	cmd := l.loader.Trigger(strings.TrimSpace(q))
	if cmd != nil || l.loader.State().Phase == load.Idle {
		l.cursor = 0
	}
	return cmd
}

func (l *SelectableList) Reset() {
	l.loader.Reset()
	l.cursor = 0
}

func (l *SelectableList) Retry() tea.Cmd {
	if l.loader.State().Phase != load.Failed {
		return nil
	}
	return l.loader.Reload()
}

func (l *SelectableList) Handle(msg tea.Msg) bool {
	if !l.loader.Handle(msg) {
		return false
	}
	l.cursor = 0
	return true
}

func (l *SelectableList) State() load.State[[]catalog.Summary] {
	return l.loader.State()
}

func (l *SelectableList) MoveCursor(delta int) {
	l.cursor = clampCursor(l.cursor+delta, len(l.items()))
}

// Select returns the intent for the highlighted row, if any.
func (l *SelectableList) Select() coordinator.Intent {
	items := l.items()
	if len(items) == 0 {
		return nil
	}
	return coordinator.CharacterSelected{ID: items[l.cursor].ID}
}

func (l *SelectableList) items() []catalog.Summary {
	st := l.loader.State()
	if st.Phase != load.Ready {
		return nil
	}
	return st.Data
}

func (l *SelectableList) View(width, height int, focused bool, spin string) string {
	st := l.loader.State()
	switch st.Phase {
	case load.Idle:
		return placeholderStyle.Render(listIdleText)
	case load.Loading:
		return spin + " " + placeholderStyle.Render(listLoadingText)
	case load.Failed:
		return errorStyle.Render(st.Err)
	}
	query, _ := l.loader.Key()
	if len(st.Data) == 0 {
		return placeholderStyle.Render(fmt.Sprintf("No characters found for %q", query))
	}

	const rowHeight = 4
	visible := max(1, height/rowHeight)
	start := scrollStart(l.cursor, visible, len(st.Data))
	rows := make([]string, 0, visible)
	for i := start; i < len(st.Data) && i < start+visible; i++ {
		rows = append(rows, renderSummaryRow(st.Data[i], width, focused && i == l.cursor))
	}
	header := titleStyle.Render(fmt.Sprintf("%d result(s) for %q", len(st.Data), query))
	return header + "\n" + strings.Join(rows, "\n")
}

func renderSummaryRow(c catalog.Summary, width int, selected bool) string {
	lines := []string{
		sideMarker(c) + " " + nameStyle.Render(c.DisplayName()),
		"  " + birthdateStyle.Render(c.Birthdate),
		"  " + descriptionStyle.Render(TrimToWidth(c.Description, max(1, width-2))),
		"",
	}
	row := strings.Join(lines, "\n")
	if selected {
		return cursorStyle.Width(max(1, width)).Render(row)
	}
	return row
}

func sideMarker(c catalog.Summary) string {
	if c.IsDark() {
		return darkSideStyle.Render("◆")
	}
	return lightSideStyle.Render("◇")
}

func loaderOptions[K comparable, T any](log *zap.Logger, abort bool) []load.Option[K, T] {
	opts := []load.Option[K, T]{load.WithLogger[K, T](log)}
	if abort {
		opts = append(opts, load.WithAbortSuperseded[K, T]())
	}
	return opts
}

func clampCursor(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func scrollStart(cursor, visible, n int) int {
	if n <= visible || cursor < visible {
		return 0
	}
	start := cursor - visible + 1
	if start+visible > n {
		start = n - visible
	}
	return start
}
