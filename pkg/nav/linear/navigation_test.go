package linear_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/host"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/linear"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/navtest"
)

func screen(kind string) *navtest.Screen {
	return navtest.NewScreen(kind, nil)
}

func navigate(t *testing.T, u nav.Unit, cmd nav.Command) {
	t.Helper()
	handled, err := u.Navigate(cmd)
	require.NoError(t, err)
	require.True(t, handled)
}

func TestForwardAndBack(t *testing.T) {
	stack := host.NewStack()
	n := linear.New(stack)
	rec := &navtest.Recorder{}
	n.Subscribe(rec.Record)

	navigate(t, n, linear.Replace{Screen: screen("home")})
	navigate(t, n, linear.Forward{Screen: screen("list"), Tag: "list:all"})
	navigate(t, n, linear.Forward{Screen: screen("item")})
	assert.Equal(t, []string{"item", "list:all", "home"}, stack.Tags())

	ok, err := n.Back()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "list:all", stack.CurrentTag())

	assert.Equal(t, []nav.Event{
		nav.OpenScreenEvent{Tag: "home"},
		nav.OpenScreenEvent{Tag: "list:all"},
		nav.OpenScreenEvent{Tag: "item"},
		nav.CloseScreenEvent{Tag: "item"},
	}, rec.Events)
}

func TestBackOnRootReportsFalse(t *testing.T) {
	stack := host.NewStack()
	n := linear.New(stack)

	ok, err := n.Back()
	require.NoError(t, err)
	assert.False(t, ok)

	navigate(t, n, linear.Replace{Screen: screen("home")})
	ok, err = n.Back()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "home", stack.CurrentTag())
}

func TestBackTo(t *testing.T) {
	stack := host.NewStack()
	n := linear.New(stack)
	rec := &navtest.Recorder{}

	navigate(t, n, linear.Replace{Screen: screen("home")})
	navigate(t, n, linear.Forward{Screen: screen("a")})
	navigate(t, n, linear.Forward{Screen: screen("b")})
	navigate(t, n, linear.Forward{Screen: screen("c")})
	n.Subscribe(rec.Record)

	navigate(t, n, linear.BackTo{Tag: "a"})
	assert.Equal(t, "a", stack.CurrentTag())
	assert.Equal(t, []string{"close screen c", "close screen b"}, rec.Messages())

	rec.Reset()
	navigate(t, n, linear.BackTo{Tag: "a"})
	assert.Empty(t, rec.Events)
}

func TestBackToUnknownTagDoesNotPop(t *testing.T) {
	stack := host.NewStack()
	n := linear.New(stack)
	navigate(t, n, linear.Replace{Screen: screen("home")})
	navigate(t, n, linear.Forward{Screen: screen("a")})

	_, err := n.Navigate(linear.BackTo{Tag: "missing"})
	assert.ErrorIs(t, err, nav.ErrTagNotFound)
	assert.Equal(t, 1, stack.Depth())
	assert.Equal(t, "a", stack.CurrentTag())
}

func TestTransitions(t *testing.T) {
	stack := host.NewStack()
	var seen []nav.Transition
	stack.OnChange(func(_ nav.Screen, tr nav.Transition) { seen = append(seen, tr) })

	n := linear.New(stack, linear.WithDefaultTransition(nav.TransitionFade))
	navigate(t, n, linear.Replace{Screen: screen("home")})
	navigate(t, n, linear.Forward{Screen: screen("a"), Transition: nav.TransitionOpen})
	_, err := n.Back()
	require.NoError(t, err)

	assert.Equal(t, []nav.Transition{nav.TransitionFade, nav.TransitionOpen, nav.TransitionClose}, seen)
}

func TestClearPopsEverything(t *testing.T) {
	stack := host.NewStack()
	n := linear.New(stack)
	navigate(t, n, linear.Replace{Screen: screen("home")})
	navigate(t, n, linear.Forward{Screen: screen("a")})
	navigate(t, n, linear.Forward{Screen: screen("b")})

	n.Clear()
	assert.Equal(t, 0, stack.Depth())
	assert.Equal(t, "home", stack.CurrentTag())
}

func TestNilScreen(t *testing.T) {
	n := linear.New(host.NewStack())
	handled, err := n.Navigate(linear.Forward{})
	assert.True(t, handled)
	assert.Error(t, err)
}

func TestIgnoresForeignCommands(t *testing.T) {
	n := linear.New(host.NewStack())
	handled, err := n.Navigate(linear.OpenScreen{Screen: screen("a")})
	require.NoError(t, err)
	assert.False(t, handled)

	state := nav.State{}
	require.NoError(t, n.SaveState(state))
	assert.Empty(t, state)
}
