package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/starfolk/internal/location"
)

// routeChangedMsg announces a location change to the subscriber that owns sub.
type routeChangedMsg struct {
	sub *location.Subscription
}

// waitForRoute blocks until sub fires and turns the token into a message.
// The receiver must call it again to keep listening.
func waitForRoute(sub *location.Subscription) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-sub.C(); !ok {
			return nil
		}
		return routeChangedMsg{sub: sub}
	}
}
