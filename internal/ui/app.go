// Package ui is the terminal front end: a Bubble Tea model that wires the
// coordinator to the search box, result list, featured panel and profile.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
	"github.com/jask/starfolk/internal/coordinator"
	"github.com/jask/starfolk/internal/load"
	"github.com/jask/starfolk/internal/location"
	"github.com/jask/starfolk/internal/route"
)

type Deps struct {
	Gateway         catalog.Gateway
	Location        *location.Location
	Logger          *zap.Logger
	AbortSuperseded bool
	ProfileStyle    string
}

type focus int

const (
	focusMain focus = iota
	focusFeatured
	focusSearch
	focusAddress
)

// App is the root model. It forwards location changes to the coordinator,
// applies the resulting view state to the components, and hands component
// intents back to the coordinator.
type App struct {
	loc   *location.Location
	sub   *location.Subscription
	coord *coordinator.Coordinator
	log   *zap.Logger
	keys  *KeyRegistry

	search   SearchInput
	address  textinput.Model
	list     *SelectableList
	featured *FeaturedPanel
	profile  *ProfileView
	spinner  spinner.Model

	view     route.ViewState
	focus    focus
	width    int
	height   int
	quitting bool
}

func New(ctx context.Context, deps Deps) *App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc := deps.Location
	if loc == nil {
		loc = location.New(route.HomeRoute)
	}
	coord := coordinator.New(loc, log.Named("coordinator"))

	addr := textinput.New()
	addr.Prompt = ""
	addr.Placeholder = "#/profile/1"
	addr.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		loc:      loc,
		sub:      loc.Subscribe(),
		coord:    coord,
		log:      log,
		keys:     NewKeyRegistry(DefaultKeyBindings()),
		search:   NewSearchInput(),
		address:  addr,
		list:     NewSelectableList(ctx, deps.Gateway, log, deps.AbortSuperseded),
		featured: NewFeaturedPanel(ctx, deps.Gateway, loc, log, deps.AbortSuperseded),
		profile:  NewProfileView(ctx, deps.Gateway, log, deps.AbortSuperseded, deps.ProfileStyle),
		spinner:  sp,
		width:    100,
		height:   32,
	}
}

func (a *App) Init() tea.Cmd {
	a.layout()
	return tea.Batch(
		a.transition(a.coord.State()),
		a.featured.Init(),
		waitForRoute(a.sub),
		a.spinner.Tick,
	)
}

// Close releases the route subscriptions.
func (a *App) Close() {
	a.sub.Close()
	a.featured.Close()
}

// followRoute lets the coordinator read the new address and moves the
// components to the resulting view state.
func (a *App) followRoute() tea.Cmd {
	return a.transition(a.coord.OnRouteChanged())
}

// View state currently applied to the components.
func (a *App) ViewState() route.ViewState { return a.view }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.layout()
		return a, nil
	case routeChangedMsg:
		if msg.sub != a.sub {
			return a, a.featured.Update(msg)
		}
		return a, tea.Batch(a.followRoute(), waitForRoute(a.sub))
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.list.Handle(msg) || a.profile.Handle(msg) {
		return a, nil
	}
	var cmds []tea.Cmd
	cmds = append(cmds, a.featured.Update(msg))
	_, cmd := a.search.Update(msg)
	cmds = append(cmds, cmd)
	a.address, cmd = a.address.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// transition applies next to the components. Leaving a data screen drops its
// loaded state so that coming back loads afresh.
func (a *App) transition(next route.ViewState) tea.Cmd {
	prev := a.view
	a.view = next
	if prev.Screen == route.Search && next.Screen != route.Search {
		a.list.Reset()
	}
	if prev.Screen == route.Profile && next.Screen != route.Profile {
		a.profile.Reset()
	}
	switch next.Screen {
	case route.Search:
		return a.list.SetQuery(a.coord.Query())
	case route.Profile:
		return a.profile.SetID(next.SelectedID)
	}
	return nil
}

// dispatch hands an intent to the coordinator. The query is forwarded to the
// list directly because it never travels through the route.
func (a *App) dispatch(in coordinator.Intent) tea.Cmd {
	if in == nil {
		return nil
	}
	a.coord.Dispatch(in)
	if _, ok := in.(coordinator.QueryChanged); ok && a.view.Screen == route.Search {
		return a.list.SetQuery(a.coord.Query())
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return a.quit()
	}
	scope := a.scope()

	switch a.focus {
	case focusSearch:
		if a.keys.IsAction(msg, "blur", scope) || a.keys.IsAction(msg, "submit", scope) {
			a.search.Blur()
			a.focus = focusMain
			return nil
		}
		in, cmd := a.search.Update(msg)
		return tea.Batch(cmd, a.dispatch(in))
	case focusAddress:
		if a.keys.IsAction(msg, "submit", scope) {
			a.coord.Follow(a.address.Value())
		}
		if a.keys.IsAction(msg, "blur", scope) || a.keys.IsAction(msg, "submit", scope) {
			a.address.Blur()
			a.focus = focusMain
			return nil
		}
		var cmd tea.Cmd
		a.address, cmd = a.address.Update(msg)
		return cmd
	}

	switch {
	case a.keys.IsAction(msg, "quit", scope):
		return a.quit()
	case a.keys.IsAction(msg, "focus-search", scope):
		a.focus = focusSearch
		return a.search.Focus()
	case a.keys.IsAction(msg, "open-address", scope):
		a.focus = focusAddress
		a.address.SetValue(a.loc.Hash())
		a.address.CursorEnd()
		return a.address.Focus()
	case a.keys.IsAction(msg, "toggle-pane", scope):
		if a.focus == focusFeatured {
			a.focus = focusMain
		} else {
			a.focus = focusFeatured
		}
		return nil
	case a.keys.IsAction(msg, "link-home", scope):
		a.coord.Follow(route.HomeRoute)
		return nil
	case a.keys.IsAction(msg, "link-about", scope):
		a.coord.Follow(route.AboutRoute)
		return nil
	}

	if a.focus == focusFeatured {
		switch {
		case a.keys.IsAction(msg, "cursor-down", scope):
			a.featured.MoveCursor(1)
		case a.keys.IsAction(msg, "cursor-up", scope):
			a.featured.MoveCursor(-1)
		case a.keys.IsAction(msg, "select", scope):
			return a.dispatch(a.featured.Select())
		case a.keys.IsAction(msg, "retry", scope):
			return a.featured.Retry()
		}
		return nil
	}

	switch a.view.Screen {
	case route.Search:
		switch {
		case a.keys.IsAction(msg, "cursor-down", scope):
			a.list.MoveCursor(1)
		case a.keys.IsAction(msg, "cursor-up", scope):
			a.list.MoveCursor(-1)
		case a.keys.IsAction(msg, "select", scope):
			return a.dispatch(a.list.Select())
		case a.keys.IsAction(msg, "retry", scope):
			return a.list.Retry()
		}
	case route.Profile:
		switch {
		case a.keys.IsAction(msg, "back", scope):
			return a.dispatch(a.profile.Back())
		case a.keys.IsAction(msg, "cursor-down", scope):
			a.profile.Scroll(1)
		case a.keys.IsAction(msg, "cursor-up", scope):
			a.profile.Scroll(-1)
		case a.keys.IsAction(msg, "retry", scope):
			return a.profile.Retry()
		}
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.Close()
	return tea.Quit
}

func (a *App) scope() string {
	switch a.focus {
	case focusSearch:
		return scopeSearch
	case focusAddress:
		return scopeAddress
	case focusFeatured:
		return scopeFeatured
	}
	switch a.view.Screen {
	case route.Search:
		return scopeList
	case route.Profile:
		return scopeProfile
	case route.About:
		return scopeAbout
	default:
		return scopeHome
	}
}

func (a *App) hasFailure() bool {
	if a.featured.State().Phase == load.Failed {
		return true
	}
	switch a.view.Screen {
	case route.Search:
		return a.list.State().Phase == load.Failed
	case route.Profile:
		return a.profile.State().Phase == load.Failed
	}
	return false
}
