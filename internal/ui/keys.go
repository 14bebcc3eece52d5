package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Scopes name the part of the screen that owns the keyboard.
const (
	scopeSearch   = "search"
	scopeAddress  = "address"
	scopeFeatured = "featured"
	scopeHome     = "main:home"
	scopeList     = "main:search"
	scopeProfile  = "main:profile"
	scopeAbout    = "main:about"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

func (b KeyBinding) binding() key.Binding {
	return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
}

// KeyRegistry resolves key presses to actions for the scope that has focus.
type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

// Help returns the bindings available in scope, in registration order.
func (r *KeyRegistry) Help(scope string) []key.Binding {
	out := make([]key.Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if len(b.Keys) > 0 && scopeMatch(scope, b.Scopes) {
			out = append(out, b.binding())
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	for _, b := range r.bindings {
		if b.Action != action || len(b.Keys) == 0 || !scopeMatch(scope, b.Scopes) {
			continue
		}
		if key.Matches(msg, b.binding()) {
			return true
		}
	}
	return false
}

// scopeMatch treats "main:*" as any main-area scope and "*" as everything
// except text entry scopes, where letters must reach the input.
func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		switch {
		case s == scope:
			return true
		case s == "*" && scope != scopeSearch && scope != scopeAddress:
			return true
		case strings.HasSuffix(s, ":*") && strings.HasPrefix(scope, strings.TrimSuffix(s, "*")):
			return true
		}
	}
	return false
}

var textScopes = []string{scopeSearch, scopeAddress}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q"}, Action: "quit", Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"/"}, Action: "focus-search", Description: "search", Scopes: []string{"*"}},
		{Keys: []string{"g"}, Action: "open-address", Description: "go to route", Scopes: []string{"*"}},
		{Keys: []string{"tab"}, Action: "toggle-pane", Description: "featured/main", Scopes: []string{"*"}},
		{Keys: []string{"h"}, Action: "link-home", Description: "home", Scopes: []string{"*"}},
		{Keys: []string{"a"}, Action: "link-about", Description: "about", Scopes: []string{"*"}},
		{Keys: []string{"j", "down"}, Action: "cursor-down", Description: "down", Scopes: []string{scopeList, scopeFeatured, scopeProfile}},
		{Keys: []string{"k", "up"}, Action: "cursor-up", Description: "up", Scopes: []string{scopeList, scopeFeatured, scopeProfile}},
		{Keys: []string{"enter"}, Action: "select", Description: "open", Scopes: []string{scopeList, scopeFeatured}},
		{Keys: []string{"esc", "backspace", "b"}, Action: "back", Description: "back", Scopes: []string{scopeProfile}},
		{Keys: []string{"r"}, Action: "retry", Description: "retry", Scopes: []string{scopeList, scopeFeatured, scopeProfile}},
		{Keys: []string{"enter"}, Action: "submit", Description: "done", Scopes: textScopes},
		{Keys: []string{"esc"}, Action: "blur", Description: "close", Scopes: textScopes},
	}
}
