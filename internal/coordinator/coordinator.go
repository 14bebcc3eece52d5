// Package coordinator owns the mapping from the location fragment to the
// current view state, and from user intents back to location writes.
//
// The coordinator is the only writer of the location. Every write comes back
// around as a change notification, which the owner answers by calling
// OnRouteChanged; the view state is never updated any other way.
package coordinator

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/location"
	"github.com/jask/starfolk/internal/route"
)

type Coordinator struct {
	loc   *location.Location
	log   *zap.Logger
	state route.ViewState
	query string
}

// New resolves the location's current fragment immediately, so State is
// valid (and any unknown fragment already corrected) on return.
func New(loc *location.Location, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{loc: loc, log: log}
	c.OnRouteChanged()
	return c
}

// OnRouteChanged re-derives the view state from the location. An unknown
// fragment is rewritten to the home route and resolved again.
func (c *Coordinator) OnRouteChanged() route.ViewState {
	fragment := c.loc.Hash()
	vs, ok := route.Parse(fragment)
	if !ok {
		c.log.Debug("unrecognized route, redirecting home", zap.String("route", fragment))
		c.loc.SetHash(route.HomeRoute)
		return c.OnRouteChanged()
	}
	if vs != c.state {
		c.log.Debug("view changed", zap.Stringer("from", c.state), zap.Stringer("to", vs))
	}
	c.state = vs
	return vs
}

// SubmitQuery records text as the active query and opens the search screen
// unless text is blank.
func (c *Coordinator) SubmitQuery(text string) {
	c.query = text
	if strings.TrimSpace(text) == "" {
		return
	}
	c.navigate(route.SearchRoute)
}

func (c *Coordinator) SelectCharacter(id int) {
	c.navigate(route.ProfileRoute(id))
}

func (c *Coordinator) NavigateBack() {
	c.navigate(route.HomeRoute)
}

// Dispatch is the single entry point for component intents.
func (c *Coordinator) Dispatch(in Intent) {
	switch in := in.(type) {
	case QueryChanged:
		c.SubmitQuery(in.Text)
	case CharacterSelected:
		c.SelectCharacter(in.ID)
	case NavigateBack:
		c.NavigateBack()
	default:
		c.log.Warn("ignoring unknown intent", zap.Any("intent", in))
	}
}

// State is the view state published by the last OnRouteChanged.
func (c *Coordinator) State() route.ViewState {
	return c.state
}

// Query is the side-channel search text; it is never encoded in the route.
func (c *Coordinator) Query() string {
	return c.query
}

func (c *Coordinator) navigate(fragment string) {
	if c.loc.SetHash(fragment) {
		c.log.Debug("navigate", zap.String("route", fragment))
	}
}

// Follow writes fragment as-is, the way an anchor or an edited address bar
// would. Unknown fragments are corrected on the next OnRouteChanged.
func (c *Coordinator) Follow(fragment string) {
	c.navigate(fragment)
}
