// Package route maps location fragments to view states.
//
// The grammar is a fixed, ordered list of rules. The first rule that accepts
// a fragment decides the screen; a fragment no rule accepts is unrecognized
// and callers are expected to correct it to Home.
package route

import (
	"strconv"
	"strings"
)

type Screen int

const (
	Home Screen = iota
	Search
	Profile
	About
)

func (s Screen) String() string {
	switch s {
	case Home:
		return "home"
	case Search:
		return "search"
	case Profile:
		return "profile"
	case About:
		return "about"
	default:
		return "screen(" + strconv.Itoa(int(s)) + ")"
	}
}

const (
	HomeRoute     = "#/"
	AboutRoute    = "#/about"
	SearchRoute   = "#/search"
	profilePrefix = "#/profile/"
)

// ViewState is what the application shows. SelectedID is set only for Profile.
type ViewState struct {
	Screen     Screen
	SelectedID int
}

func (v ViewState) String() string {
	if v.Screen == Profile {
		return v.Screen.String() + "/" + strconv.Itoa(v.SelectedID)
	}
	return v.Screen.String()
}

// Rule accepts a fragment and builds the matching ViewState.
type Rule struct {
	Name  string
	Match func(fragment string) (ViewState, bool)
}

// Rules is evaluated in order by Parse.
var Rules = []Rule{
	{Name: "home", Match: exact(Home, "", HomeRoute)},
	{Name: "about", Match: exact(About, AboutRoute)},
	{Name: "search", Match: exact(Search, SearchRoute)},
	{Name: "profile", Match: matchProfile},
}

// Parse resolves fragment against Rules. The bool is false when the fragment
// is unrecognized.
func Parse(fragment string) (ViewState, bool) {
	for _, r := range Rules {
		if vs, ok := r.Match(fragment); ok {
			return vs, true
		}
	}
	return ViewState{}, false
}

// ProfileRoute encodes a character selection.
func ProfileRoute(id int) string {
	return profilePrefix + strconv.Itoa(id)
}

// ProfileID extracts the selected id from a profile fragment.
func ProfileID(fragment string) (int, bool) {
	vs, ok := matchProfile(fragment)
	if !ok {
		return 0, false
	}
	return vs.SelectedID, true
}

func exact(screen Screen, fragments ...string) func(string) (ViewState, bool) {
	return func(fragment string) (ViewState, bool) {
		for _, f := range fragments {
			if fragment == f {
				return ViewState{Screen: screen}, true
			}
		}
		return ViewState{}, false
	}
}

func matchProfile(fragment string) (ViewState, bool) {
	digits, ok := strings.CutPrefix(fragment, profilePrefix)
	if !ok || digits == "" {
		return ViewState{}, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return ViewState{}, false
		}
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		return ViewState{}, false
	}
	return ViewState{Screen: Profile, SelectedID: id}, true
}
