package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
	"github.com/jask/starfolk/internal/coordinator"
	"github.com/jask/starfolk/internal/load"
	"github.com/jask/starfolk/internal/location"
	"github.com/jask/starfolk/internal/route"
)

const (
	featuredLoadingText = "Loading featured..."
	featuredErrorText   = "Error loading featured characters."
	featuredEmptyText   = "No featured characters"
	featuredFooter      = "2025 Star Wardens LTD."
)

// FeaturedPanel loads the featured set once and highlights the entry that
// the profile screen is showing. It follows the location on its own
// subscription; the highlight never feeds back into the view state.
type FeaturedPanel struct {
	loader   *load.Loader[struct{}, []catalog.Summary]
	loc      *location.Location
	sub      *location.Subscription
	activeID int
	cursor   int
}

func NewFeaturedPanel(ctx context.Context, gw catalog.Gateway, loc *location.Location, log *zap.Logger, abort bool) *FeaturedPanel {
	fetch := func(ctx context.Context, _ struct{}) ([]catalog.Summary, error) {
		return gw.Featured(ctx)
	}
	opts := loaderOptions[struct{}, []catalog.Summary](log.Named("loader.featured"), abort)
	opts = append(opts, load.WithFailure[struct{}, []catalog.Summary](func(struct{}, error) string { return featuredErrorText }))
	f := &FeaturedPanel{
		loader: load.New(ctx, "featured", fetch, opts...),
		loc:    loc,
		sub:    loc.Subscribe(),
	}
	f.syncActive()
	return f
}

// Init starts the featured load and the route subscription.
func (f *FeaturedPanel) Init() tea.Cmd {
	return tea.Batch(f.loader.Trigger(struct{}{}), waitForRoute(f.sub))
}

func (f *FeaturedPanel) Close() { f.sub.Close() }

// Update handles load results and route notifications.
func (f *FeaturedPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case routeChangedMsg:
		if msg.sub != f.sub {
			return nil
		}
		f.syncActive()
		return waitForRoute(f.sub)
	}
	if f.loader.Handle(msg) {
		f.cursor = clampCursor(f.cursor, len(f.items()))
	}
	return nil
}

func (f *FeaturedPanel) ActiveID() int { return f.activeID }

func (f *FeaturedPanel) State() load.State[[]catalog.Summary] { return f.loader.State() }

func (f *FeaturedPanel) Retry() tea.Cmd {
	if f.loader.State().Phase != load.Failed {
		return nil
	}
	return f.loader.Reload()
}

func (f *FeaturedPanel) MoveCursor(delta int) {
	f.cursor = clampCursor(f.cursor+delta, len(f.items()))
}

func (f *FeaturedPanel) Select() coordinator.Intent {
	items := f.items()
	if len(items) == 0 {
		return nil
	}
	return coordinator.CharacterSelected{ID: items[f.cursor].ID}
}

func (f *FeaturedPanel) items() []catalog.Summary {
	if st := f.loader.State(); st.Phase == load.Ready {
		return st.Data
	}
	return nil
}

func (f *FeaturedPanel) syncActive() {
	id, _ := route.ProfileID(f.loc.Hash())
	f.activeID = id
}

func (f *FeaturedPanel) View(width int, focused bool, spin string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Featured Characters:"))
	b.WriteString("\n\n")

	st := f.loader.State()
	switch st.Phase {
	case load.Idle, load.Loading:
		b.WriteString(spin + " " + placeholderStyle.Render(featuredLoadingText))
		return b.String()
	case load.Failed:
		b.WriteString(errorStyle.Render(st.Err))
		return b.String()
	}
	if len(st.Data) == 0 {
		b.WriteString(placeholderStyle.Render(featuredEmptyText))
	}
	for i, c := range st.Data {
		line := sideMarker(c) + " " + TrimToWidth(c.Name, max(1, width-2))
		switch {
		case c.ID == f.activeID:
			line = activeItemStyle.Width(max(1, width)).Render(line)
		case focused && i == f.cursor:
			line = cursorStyle.Width(max(1, width)).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render(featuredFooter) + " | " + linkStyle.Render("About us (a)"))
	return b.String()
}
