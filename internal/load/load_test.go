package load

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type call struct {
	ctx context.Context
	key string
}

func newEchoLoader(calls *[]call, opts ...Option[string, string]) *Loader[string, string] {
	fetch := func(ctx context.Context, key string) (string, error) {
		*calls = append(*calls, call{ctx: ctx, key: key})
		if key == "boom" {
			return "", errors.New("transport down")
		}
		return "result:" + key, nil
	}
	return New(context.Background(), "echo", fetch, opts...)
}

func run(t *testing.T, cmd tea.Cmd) Result[string, string] {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	r, ok := msg.(Result[string, string])
	require.True(t, ok, "unexpected message %T", msg)
	return r
}

func TestTriggerLoadsThenReady(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	require.Equal(t, Idle, l.State().Phase)

	cmd := l.Trigger("leia")
	require.Equal(t, Loading, l.State().Phase)

	require.True(t, l.Handle(run(t, cmd)))
	require.Equal(t, Ready, l.State().Phase)
	require.Equal(t, "result:leia", l.State().Data)
	require.Len(t, calls, 1)
}

func TestSameTriggerIsNoop(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	l.Handle(run(t, l.Trigger("leia")))
	require.Nil(t, l.Trigger("leia"))
	require.Equal(t, Ready, l.State().Phase)
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)

	cmdA := l.Trigger("a")
	cmdB := l.Trigger("b")
	require.Equal(t, Loading, l.State().Phase)

	resultB := run(t, cmdB)
	resultA := run(t, cmdA)

	require.False(t, l.Apply(resultA), "stale result must be dropped")
	require.Equal(t, Loading, l.State().Phase)

	require.True(t, l.Apply(resultB))
	require.Equal(t, "result:b", l.State().Data)

	require.False(t, l.Apply(resultA), "late stale result must not overwrite")
	require.Equal(t, "result:b", l.State().Data)
}

func TestSupersededFailureIsDiscarded(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	cmdA := l.Trigger("boom")
	cmdB := l.Trigger("ok")
	require.True(t, l.Apply(run(t, cmdB)))
	require.False(t, l.Apply(run(t, cmdA)))
	require.Equal(t, Ready, l.State().Phase)
}

func TestFailureUsesFixedMessage(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls, WithFailure[string, string](func(key string, err error) string {
		return "could not load " + key
	}))
	require.True(t, l.Apply(run(t, l.Trigger("boom"))))
	st := l.State()
	require.Equal(t, Failed, st.Phase)
	require.Equal(t, "could not load boom", st.Err)
	require.Empty(t, st.Data)

	require.True(t, l.Apply(run(t, l.Reload())))
	require.Equal(t, Failed, l.State().Phase)

	require.True(t, l.Apply(run(t, l.Trigger("fine"))))
	require.Equal(t, Ready, l.State().Phase)
}

func TestIdleKeysDoNotFetch(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls, WithIdle[string, string](func(k string) bool { return k == "" }))

	res := run(t, l.Trigger("x"))
	require.Nil(t, l.Trigger(""))
	require.Equal(t, Idle, l.State().Phase)
	require.False(t, l.Apply(res), "result for an abandoned trigger must be dropped")
	require.Len(t, calls, 1)
}

func TestResetDropsInFlight(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	cmd := l.Trigger("a")
	l.Reset()
	require.False(t, l.Apply(run(t, cmd)))
	require.Equal(t, Idle, l.State().Phase)
	_, ok := l.Key()
	require.False(t, ok)

	require.NotNil(t, l.Trigger("a"), "same key after reset loads again")
}

func TestOwnerIsolation(t *testing.T) {
	var calls []call
	a := newEchoLoader(&calls)
	b := New(context.Background(), "other", func(ctx context.Context, k string) (string, error) { return k, nil })

	cmd := b.Trigger("x")
	a.Trigger("x")
	require.False(t, a.Apply(run(t, cmd)))
	require.Equal(t, Loading, a.State().Phase)
}

func TestAbortSupersededCancelsContext(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls, WithAbortSuperseded[string, string]())
	cmdA := l.Trigger("a")
	cmdB := l.Trigger("b")
	run(t, cmdA)
	run(t, cmdB)
	require.Len(t, calls, 2)
	require.ErrorIs(t, calls[0].ctx.Err(), context.Canceled)
	require.NoError(t, calls[1].ctx.Err())
}

func TestWithoutAbortContextStaysLive(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	cmdA := l.Trigger("a")
	l.Trigger("b")
	run(t, cmdA)
	require.NoError(t, calls[0].ctx.Err())
}

func TestHandleIgnoresForeignMessages(t *testing.T) {
	var calls []call
	l := newEchoLoader(&calls)
	require.False(t, l.Handle(tea.KeyMsg{}))
	require.False(t, l.Handle(Result[int, string]{Owner: "echo"}))
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "loading", Loading.String())
	require.Equal(t, "phase(9)", Phase(9).String())
}
