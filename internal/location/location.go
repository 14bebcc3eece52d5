// Package location holds the current route fragment and notifies subscribers
// when it changes.
package location

import (
	"strings"
	"sync"
)

// Location is a single observable fragment value. Writes that do not change
// the value are not announced.
type Location struct {
	mu   sync.Mutex
	hash string
	subs map[*Subscription]struct{}
}

// Subscription receives a token on C whenever the fragment changes. Tokens
// coalesce: a reader that falls behind sees one pending token and should read
// Hash for the current value.
type Subscription struct {
	loc  *Location
	ch   chan struct{}
	once sync.Once
}

func New(initial string) *Location {
	return &Location{
		hash: Normalize(initial),
		subs: map[*Subscription]struct{}{},
	}
}

// Normalize mirrors how a browser stores an assigned fragment: a lone "#"
// is empty and a missing "#" is added.
func Normalize(h string) string {
	h = strings.TrimSpace(h)
	if h == "" || h == "#" {
		return ""
	}
	if !strings.HasPrefix(h, "#") {
		return "#" + h
	}
	return h
}

func (l *Location) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

// SetHash stores h and reports whether the stored value changed.
func (l *Location) SetHash(h string) bool {
	h = Normalize(h)
	l.mu.Lock()
	defer l.mu.Unlock()
	if h == l.hash {
		return false
	}
	l.hash = h
	for s := range l.subs {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
	return true
}

func (l *Location) Subscribe() *Subscription {
	s := &Subscription{loc: l, ch: make(chan struct{}, 1)}
	l.mu.Lock()
	l.subs[s] = struct{}{}
	l.mu.Unlock()
	return s
}

func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.loc.mu.Lock()
		delete(s.loc.subs, s)
		s.loc.mu.Unlock()
		close(s.ch)
	})
}
