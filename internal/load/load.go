// Package load drives the fetch lifecycle shared by every data-backed view.
//
// A Loader is keyed by a trigger value. Triggering a different value starts a
// new fetch and makes every earlier fetch stale; a stale result is dropped when
// it arrives, so the state always reflects the latest trigger only. Fetches run
// as Bubble Tea commands and report back through Result messages.
package load

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is owned by one Loader. Data is meaningful only when Phase is Ready,
// Err only when Phase is Failed.
type State[T any] struct {
	Phase Phase
	Data  T
	Err   string
}

// Result is the message a fetch command yields.
type Result[K comparable, T any] struct {
	Owner string
	Seq   uint64
	Key   K
	Data  T
	Err   error
}

type Fetch[K comparable, T any] func(ctx context.Context, key K) (T, error)

type Option[K comparable, T any] func(*Loader[K, T])

// WithIdle marks keys that mean "nothing to load".
func WithIdle[K comparable, T any](idle func(K) bool) Option[K, T] {
	return func(l *Loader[K, T]) { l.idle = idle }
}

// WithFailure maps a fetch error to the message shown to the user.
func WithFailure[K comparable, T any](failure func(K, error) string) Option[K, T] {
	return func(l *Loader[K, T]) { l.failure = failure }
}

// WithAbortSuperseded cancels the request context of a fetch once a newer
// trigger replaces it. Without it the request runs to completion and only its
// result is ignored.
func WithAbortSuperseded[K comparable, T any]() Option[K, T] {
	return func(l *Loader[K, T]) { l.abort = true }
}

func WithLogger[K comparable, T any](log *zap.Logger) Option[K, T] {
	return func(l *Loader[K, T]) {
		if log != nil {
			l.log = log
		}
	}
}

type Loader[K comparable, T any] struct {
	owner   string
	ctx     context.Context
	fetch   Fetch[K, T]
	idle    func(K) bool
	failure func(K, error) string
	abort   bool
	log     *zap.Logger

	key    K
	hasKey bool
	seq    uint64
	cancel context.CancelFunc
	state  State[T]
}

// New builds a Loader. owner tags Result messages so that loaders sharing key
// and data types never accept each other's results.
func New[K comparable, T any](ctx context.Context, owner string, fetch Fetch[K, T], opts ...Option[K, T]) *Loader[K, T] {
	if ctx == nil {
		ctx = context.Background()
	}
	l := &Loader[K, T]{
		owner: owner,
		ctx:   ctx,
		fetch: fetch,
		log:   zap.NewNop(),
		failure: func(K, error) string {
			return "Something went wrong. Please try again."
		},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader[K, T]) State() State[T] { return l.state }

// Key returns the current trigger value, if any.
func (l *Loader[K, T]) Key() (K, bool) { return l.key, l.hasKey }

// Trigger starts a fetch for key unless key equals the current trigger.
func (l *Loader[K, T]) Trigger(key K) tea.Cmd {
	if l.hasKey && key == l.key {
		return nil
	}
	return l.start(key)
}

// Reload fetches the current trigger again, e.g. after a failure.
func (l *Loader[K, T]) Reload() tea.Cmd {
	if !l.hasKey {
		return nil
	}
	return l.start(l.key)
}

// Reset forgets the trigger and returns to Idle. In-flight results become stale.
func (l *Loader[K, T]) Reset() {
	l.stopInFlight()
	l.seq++
	var zero K
	l.key, l.hasKey = zero, false
	l.state = State[T]{Phase: Idle}
}

// Apply folds a fetch result into the state and reports whether it was
// accepted. Results from other owners or superseded triggers are dropped.
func (l *Loader[K, T]) Apply(r Result[K, T]) bool {
	if r.Owner != l.owner {
		return false
	}
	if r.Seq != l.seq || l.state.Phase != Loading {
		l.log.Debug("discarding stale result", zap.Uint64("seq", r.Seq), zap.Uint64("current", l.seq))
		return false
	}
	l.stopInFlight()
	if r.Err != nil {
		l.log.Warn("load failed", zap.Any("key", r.Key), zap.Error(r.Err))
		l.state = State[T]{Phase: Failed, Err: l.failure(r.Key, r.Err)}
		return true
	}
	l.state = State[T]{Phase: Ready, Data: r.Data}
	return true
}

// Handle applies msg if it is a Result for this loader.
func (l *Loader[K, T]) Handle(msg tea.Msg) bool {
	r, ok := msg.(Result[K, T])
	if !ok {
		return false
	}
	return l.Apply(r)
}

func (l *Loader[K, T]) start(key K) tea.Cmd {
	l.stopInFlight()
	l.key, l.hasKey = key, true
	l.seq++
	if l.idle != nil && l.idle(key) {
		l.state = State[T]{Phase: Idle}
		return nil
	}
	l.state = State[T]{Phase: Loading}

	ctx := l.ctx
	if l.abort {
		ctx, l.cancel = context.WithCancel(ctx)
	}
	owner, seq, fetch := l.owner, l.seq, l.fetch
	l.log.Debug("load started", zap.Any("key", key), zap.Uint64("seq", seq))
	return func() tea.Msg {
		data, err := fetch(ctx, key)
		return Result[K, T]{Owner: owner, Seq: seq, Key: key, Data: data, Err: err}
	}
}

func (l *Loader[K, T]) stopInFlight() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
