package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
	"github.com/jask/starfolk/internal/coordinator"
	"github.com/jask/starfolk/internal/load"
	"github.com/jask/starfolk/internal/location"
	"github.com/jask/starfolk/internal/route"
)

// ---------------------------------------------------------------------------
// Test data helpers
// ---------------------------------------------------------------------------

type fakeGateway struct {
	mu          sync.Mutex
	results     map[string][]catalog.Summary
	searchErr   error
	featured    []catalog.Summary
	featuredErr error
	details     map[int]catalog.Detail
	detailErr   error
	searches    []string
}

func newFakeGateway() *fakeGateway {
	leia := catalog.Summary{ID: 3, Name: "Leia Organa", Side: catalog.SideLight, Birthdate: "19 BBY", Description: "Princess of Alderaan."}
	luke := catalog.Summary{ID: 1, Name: "Luke Skywalker", Side: catalog.SideLight, Birthdate: "19 BBY", Description: "Jedi Knight."}
	vader := catalog.Summary{ID: 2, Name: "Darth Vader", Side: catalog.SideDark, Birthdate: "41 BBY", Description: "Sith Lord."}
	return &fakeGateway{
		results: map[string][]catalog.Summary{
			"leia": {leia},
			"lu":   {luke},
		},
		featured: []catalog.Summary{luke, vader},
		details: map[int]catalog.Detail{
			3: {
				Summary: leia,
				Lead:    "Leader of the Rebellion.\n\nGeneral of the Resistance.",
				Traits:  []string{"Brave"},
				Gender:  "female",
			},
			1: {Summary: luke, Gender: "male"},
			2: {Summary: vader, Gender: "male"},
		},
	}
}

func (g *fakeGateway) Search(_ context.Context, text string) ([]catalog.Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searches = append(g.searches, text)
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	return g.results[text], nil
}

func (g *fakeGateway) Featured(context.Context) ([]catalog.Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.featured, g.featuredErr
}

func (g *fakeGateway) Character(_ context.Context, id int) (catalog.Detail, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.detailErr != nil {
		return catalog.Detail{}, g.detailErr
	}
	d, ok := g.details[id]
	if !ok {
		return catalog.Detail{}, catalog.ErrNotFound
	}
	return d, nil
}

func newTestApp(t *testing.T, gw catalog.Gateway, initial string) (*App, *location.Location) {
	t.Helper()
	loc := location.New(initial)
	a := New(context.Background(), Deps{
		Gateway:      gw,
		Location:     loc,
		Logger:       zap.NewNop(),
		ProfileStyle: "notty",
	})
	t.Cleanup(a.Close)
	a.layout()
	feed(t, a, a.transition(a.coord.State()))
	return a, loc
}

// runCmd executes cmd and any batch it expands to. Only fetch commands are
// passed here; route waits and cursor blinks would block.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func feed(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range runCmd(t, cmd) {
		a.Update(msg)
	}
}

// routeChanged applies a location change the way both subscribers would and
// completes the loads it starts. The re-armed waits are left out since they
// block until the next change.
func routeChanged(t *testing.T, a *App) {
	t.Helper()
	feed(t, a, a.followRoute())
	a.featured.syncActive()
}

// nextRoute returns the pending notification for sub.
func nextRoute(t *testing.T, sub *location.Subscription) tea.Msg {
	t.Helper()
	select {
	case <-sub.C():
		return routeChangedMsg{sub: sub}
	case <-time.After(time.Second):
		t.Fatal("no route notification pending")
		return nil
	}
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, a *App, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(msg)
	return cmd
}

func loadFeatured(t *testing.T, a *App) {
	t.Helper()
	feed(t, a, a.featured.loader.Trigger(struct{}{}))
}

// ---------------------------------------------------------------------------
// Flow tests
// ---------------------------------------------------------------------------

func TestSearchSelectBackFlow(t *testing.T) {
	gw := newFakeGateway()
	a, loc := newTestApp(t, gw, "#/")

	if a.ViewState().Screen != route.Home {
		t.Fatalf("initial screen = %v, want home", a.ViewState().Screen)
	}

	feed(t, a, a.dispatch(coordinator.QueryChanged{Text: "leia"}))
	if loc.Hash() != route.SearchRoute {
		t.Fatalf("hash = %q, want %q", loc.Hash(), route.SearchRoute)
	}
	if a.ViewState().Screen != route.Home {
		t.Fatal("view state moved before the change notification")
	}

	cmd := a.followRoute()
	if a.ViewState().Screen != route.Search {
		t.Fatalf("screen = %v, want search", a.ViewState().Screen)
	}
	if got := a.list.State().Phase; got != load.Loading {
		t.Fatalf("list phase = %v, want loading", got)
	}
	feed(t, a, cmd)
	st := a.list.State()
	if st.Phase != load.Ready || len(st.Data) != 1 || st.Data[0].ID != 3 {
		t.Fatalf("list state = %+v, want ready with Leia", st)
	}
	if !strings.Contains(a.View(), "Leia Organa") {
		t.Fatal("expected result row in view")
	}

	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if loc.Hash() != "#/profile/3" {
		t.Fatalf("hash = %q, want #/profile/3", loc.Hash())
	}
	routeChanged(t, a)
	if vs := a.ViewState(); vs.Screen != route.Profile || vs.SelectedID != 3 {
		t.Fatalf("view state = %v, want profile/3", vs)
	}
	if got := a.profile.State(); got.Phase != load.Ready || got.Data.ID != 3 {
		t.Fatalf("profile state = %+v, want ready for 3", got)
	}
	view := a.View()
	if !strings.Contains(view, "Leia Organa") || !strings.Contains(view, "Core Traits") {
		t.Fatalf("expected profile content in view, got:\n%s", view)
	}

	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if loc.Hash() != route.HomeRoute {
		t.Fatalf("hash = %q, want %q", loc.Hash(), route.HomeRoute)
	}
	routeChanged(t, a)
	if a.ViewState().Screen != route.Home {
		t.Fatalf("screen = %v, want home", a.ViewState().Screen)
	}
	if a.profile.State().Phase != load.Idle {
		t.Fatal("expected profile to be dropped after leaving it")
	}
}

func TestSearchWithNoResultsShowsEmptyMessage(t *testing.T) {
	a, _ := newTestApp(t, newFakeGateway(), "#/")

	a.dispatch(coordinator.QueryChanged{Text: "zzz"})
	routeChanged(t, a)

	st := a.list.State()
	if st.Phase != load.Ready || len(st.Data) != 0 {
		t.Fatalf("list state = %+v, want ready and empty", st)
	}
	if !strings.Contains(a.View(), `No characters found for "zzz"`) {
		t.Fatal("expected empty-results message")
	}
}

func TestWhitespaceQueryStaysOnCurrentScreen(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/about")

	a.dispatch(coordinator.QueryChanged{Text: "   "})
	if loc.Hash() != route.AboutRoute {
		t.Fatalf("hash = %q, want unchanged", loc.Hash())
	}
	if a.coord.Query() != "   " {
		t.Fatalf("query = %q, want it stored", a.coord.Query())
	}
}

func TestQueryEditsOnSearchScreenReloadList(t *testing.T) {
	gw := newFakeGateway()
	a, _ := newTestApp(t, gw, "#/")

	a.dispatch(coordinator.QueryChanged{Text: "leia"})
	routeChanged(t, a)

	// already on the search route: no route change, the list follows directly
	feed(t, a, a.dispatch(coordinator.QueryChanged{Text: "lu"}))
	st := a.list.State()
	if st.Phase != load.Ready || len(st.Data) != 1 || st.Data[0].ID != 1 {
		t.Fatalf("list state = %+v, want Luke", st)
	}

	// clearing the box leaves the route alone and idles the list
	a.dispatch(coordinator.QueryChanged{Text: ""})
	if a.ViewState().Screen != route.Search {
		t.Fatal("expected to stay on search")
	}
	if a.list.State().Phase != load.Idle {
		t.Fatalf("list phase = %v, want idle", a.list.State().Phase)
	}
	if !strings.Contains(a.View(), listIdleText) {
		t.Fatal("expected idle prompt")
	}
}

func TestSearchFailureShowsMessageAndRetries(t *testing.T) {
	gw := newFakeGateway()
	gw.searchErr = errors.New("boom")
	a, _ := newTestApp(t, gw, "#/")

	a.dispatch(coordinator.QueryChanged{Text: "leia"})
	routeChanged(t, a)

	st := a.list.State()
	if st.Phase != load.Failed || st.Err != listErrorText {
		t.Fatalf("list state = %+v, want failed", st)
	}
	if !strings.Contains(a.View(), listErrorText) {
		t.Fatal("expected error text in view")
	}

	gw.mu.Lock()
	gw.searchErr = nil
	gw.mu.Unlock()
	feed(t, a, press(t, a, keyMsg("r")))
	if got := a.list.State().Phase; got != load.Ready {
		t.Fatalf("phase after retry = %v, want ready", got)
	}
	if len(gw.searches) != 2 {
		t.Fatalf("searches = %v, want two calls", gw.searches)
	}
}

func TestReturningToSearchLoadsAgain(t *testing.T) {
	gw := newFakeGateway()
	a, _ := newTestApp(t, gw, "#/")

	a.dispatch(coordinator.QueryChanged{Text: "leia"})
	routeChanged(t, a)
	a.dispatch(coordinator.CharacterSelected{ID: 3})
	routeChanged(t, a)
	a.dispatch(coordinator.QueryChanged{Text: "leia"})
	routeChanged(t, a)

	if a.list.State().Phase != load.Ready {
		t.Fatalf("list phase = %v, want ready", a.list.State().Phase)
	}
	if len(gw.searches) != 2 {
		t.Fatalf("searches = %v, want a fresh load on return", gw.searches)
	}
}

func TestProfileNotFound(t *testing.T) {
	a, _ := newTestApp(t, newFakeGateway(), "#/profile/99")

	st := a.profile.State()
	if st.Phase != load.Failed || st.Err != "Character not found (id: 99)" {
		t.Fatalf("profile state = %+v, want not found", st)
	}
	if !strings.Contains(a.View(), "Character not found (id: 99)") {
		t.Fatal("expected not-found text in view")
	}
}

func TestProfileFetchFailureIsNotNotFound(t *testing.T) {
	gw := newFakeGateway()
	gw.detailErr = errors.New("unexpected status 500")
	a, _ := newTestApp(t, gw, "#/profile/3")

	st := a.profile.State()
	if st.Phase != load.Failed || st.Err != profileErrorText {
		t.Fatalf("profile state = %+v, want generic failure", st)
	}
	if st.Err == "Character not found (id: 3)" {
		t.Fatal("generic failure must not read as not found")
	}
	if !strings.Contains(a.View(), profileErrorText) {
		t.Fatal("expected error text in view")
	}
}

func TestRouteMessagesStayWithTheirSubscriber(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/")
	loadFeatured(t, a)

	a.dispatch(coordinator.CharacterSelected{ID: 2})

	// another subscriber's notification moves nothing
	other := loc.Subscribe()
	defer other.Close()
	if _, cmd := a.Update(routeChangedMsg{sub: other}); cmd != nil {
		t.Fatal("expected no command for a foreign subscription")
	}
	if a.ViewState().Screen != route.Home || a.featured.ActiveID() != 0 {
		t.Fatal("foreign notification changed the view")
	}

	// the featured panel's own token only moves the highlight
	a.Update(nextRoute(t, a.featured.sub))
	if a.featured.ActiveID() != 2 {
		t.Fatalf("active = %d, want 2", a.featured.ActiveID())
	}
	if a.ViewState().Screen != route.Home {
		t.Fatal("featured notification must not drive the view state")
	}

	// the app's token drives the coordinator
	_, cmd := a.Update(nextRoute(t, a.sub))
	if vs := a.ViewState(); vs.Screen != route.Profile || vs.SelectedID != 2 {
		t.Fatalf("view state = %v, want profile/2", vs)
	}
	if cmd == nil {
		t.Fatal("expected the profile fetch and a re-armed wait")
	}
}

func TestStaleProfileResultIsDiscarded(t *testing.T) {
	a, _ := newTestApp(t, newFakeGateway(), "#/")

	a.dispatch(coordinator.CharacterSelected{ID: 1})
	first := a.followRoute()
	a.dispatch(coordinator.CharacterSelected{ID: 2})
	second := a.followRoute()

	feed(t, a, first)
	if got := a.profile.State().Phase; got != load.Loading {
		t.Fatalf("phase after stale result = %v, want loading", got)
	}
	feed(t, a, second)
	if got := a.profile.State(); got.Phase != load.Ready || got.Data.ID != 2 {
		t.Fatalf("profile state = %+v, want ready for 2", got)
	}
}

func TestUnknownAddressIsCorrectedToHome(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/about")

	press(t, a, keyMsg("g"))
	if a.focus != focusAddress {
		t.Fatal("expected address prompt to open")
	}
	a.address.SetValue("#/unknown")
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if loc.Hash() != "#/unknown" {
		t.Fatalf("hash = %q, want the typed fragment", loc.Hash())
	}

	routeChanged(t, a)
	if loc.Hash() != route.HomeRoute {
		t.Fatalf("hash = %q, want corrected to %q", loc.Hash(), route.HomeRoute)
	}
	if a.ViewState().Screen != route.Home {
		t.Fatalf("screen = %v, want home", a.ViewState().Screen)
	}
}

func TestShellLinks(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/")

	press(t, a, keyMsg("a"))
	routeChanged(t, a)
	if a.ViewState().Screen != route.About {
		t.Fatalf("screen = %v, want about", a.ViewState().Screen)
	}
	if !strings.Contains(a.View(), "placeholder introduction") {
		t.Fatal("expected about page")
	}

	press(t, a, keyMsg("h"))
	routeChanged(t, a)
	if loc.Hash() != route.HomeRoute || a.ViewState().Screen != route.Home {
		t.Fatalf("hash %q screen %v, want home", loc.Hash(), a.ViewState().Screen)
	}
}

// ---------------------------------------------------------------------------
// Featured panel
// ---------------------------------------------------------------------------

func TestFeaturedHighlightFollowsRoute(t *testing.T) {
	a, _ := newTestApp(t, newFakeGateway(), "#/")
	loadFeatured(t, a)

	if a.featured.ActiveID() != 0 {
		t.Fatalf("active = %d, want none", a.featured.ActiveID())
	}
	a.dispatch(coordinator.CharacterSelected{ID: 2})
	routeChanged(t, a)
	if a.featured.ActiveID() != 2 {
		t.Fatalf("active = %d, want 2", a.featured.ActiveID())
	}
	a.dispatch(coordinator.NavigateBack{})
	routeChanged(t, a)
	if a.featured.ActiveID() != 0 {
		t.Fatalf("active = %d, want none after back", a.featured.ActiveID())
	}
}

func TestFeaturedSelectionByKeyboard(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/")
	loadFeatured(t, a)

	press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.focus != focusFeatured {
		t.Fatal("expected featured pane focus")
	}
	press(t, a, keyMsg("j"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if loc.Hash() != "#/profile/2" {
		t.Fatalf("hash = %q, want #/profile/2", loc.Hash())
	}
}

func TestFeaturedFailureMessage(t *testing.T) {
	gw := newFakeGateway()
	gw.featuredErr = errors.New("down")
	a, _ := newTestApp(t, gw, "#/")
	loadFeatured(t, a)

	if st := a.featured.State(); st.Phase != load.Failed || st.Err != featuredErrorText {
		t.Fatalf("featured state = %+v, want failed", st)
	}
	// the narrow column wraps the text, so check the panel at full width
	if !strings.Contains(a.featured.View(80, false, ""), featuredErrorText) {
		t.Fatal("expected featured error in panel")
	}
}

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

func TestSearchInputEmitsIntentOnChange(t *testing.T) {
	s := NewSearchInput()
	s.Focus()

	in, _ := s.Update(keyMsg("x"))
	if got, ok := in.(coordinator.QueryChanged); !ok || got.Text != "x" {
		t.Fatalf("intent = %#v, want QueryChanged{x}", in)
	}
	in, _ = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if in != nil {
		t.Fatalf("intent = %#v, want none for cursor movement", in)
	}
}

func TestTypingInSearchBoxNavigates(t *testing.T) {
	a, loc := newTestApp(t, newFakeGateway(), "#/")

	press(t, a, keyMsg("/"))
	if a.focus != focusSearch {
		t.Fatal("expected search focus")
	}
	// letters go to the box, not to global bindings
	press(t, a, keyMsg("q"))
	if a.quitting {
		t.Fatal("q must not quit while typing")
	}
	if loc.Hash() != route.SearchRoute || a.coord.Query() != "q" {
		t.Fatalf("hash %q query %q, want search with q", loc.Hash(), a.coord.Query())
	}
}

func TestProfileMarkdownSections(t *testing.T) {
	d := newFakeGateway().details[3]
	md := profileMarkdown(d)
	for _, want := range []string{
		"# Leia Organa",
		"Leader of the Rebellion.\n\nGeneral of the Resistance.",
		"## Core Traits",
		"## Key Moments in Her Journey",
		"## Important Relationships",
		"| Homeworld | Unknown |",
		"## Films",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestTrimToWidth(t *testing.T) {
	if got := TrimToWidth("Luke Skywalker", 6); got != "Luke …" {
		t.Fatalf("TrimToWidth = %q", got)
	}
	if got := TrimToWidth("Luke", 0); got != "" {
		t.Fatalf("TrimToWidth zero width = %q", got)
	}
}
