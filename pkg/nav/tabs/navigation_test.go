package tabs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/navtest"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

var (
	t1 = tabs.Tab{ID: 1, Tag: "t1", Root: "R1"}
	t2 = tabs.Tab{ID: 2, Tag: "t2", Root: "R2"}
	t3 = tabs.Tab{ID: 3, Tag: "t3", Root: "R3"}
)

type fixture struct {
	container *navtest.Container
	factory   *navtest.Factory
	nav       *tabs.Navigation
	rec       *navtest.Recorder
}

func newFixture(t *testing.T, opts ...tabs.Option) *fixture {
	t.Helper()
	f := &fixture{
		container: &navtest.Container{},
		factory:   &navtest.Factory{},
		rec:       &navtest.Recorder{},
	}
	f.nav = tabs.New(f.container, f.factory, opts...)
	sub := f.nav.Subscribe(f.rec.Record)
	t.Cleanup(sub.Unsubscribe)
	return f
}

func (f *fixture) do(t *testing.T, cmd nav.Command) {
	t.Helper()
	handled, err := f.nav.Navigate(cmd)
	require.NoError(t, err)
	require.True(t, handled)
}

func (f *fixture) back(t *testing.T) bool {
	t.Helper()
	ok, err := f.nav.Back()
	require.NoError(t, err)
	return ok
}

func (f *fixture) current(t *testing.T) (tabs.Tab, string) {
	t.Helper()
	tab, ok := f.nav.CurrentTab()
	require.True(t, ok)
	return tab, f.container.Current().Type()
}

func open(tab tabs.Tab, screen string, record bool) tabs.OpenInTab {
	return tabs.OpenInTab{Tab: &tab, Screen: navtest.NewScreen(screen, nil), AddToBackStack: record}
}

func TestInterleavedTabsWalkthrough(t *testing.T) {
	f := newFixture(t)

	f.do(t, open(t1, "R1", false))
	f.do(t, open(t1, "S2", true))
	f.do(t, tabs.SwitchTab{Tab: t2})
	f.do(t, open(t2, "S3", true))

	entries := f.nav.BackStack().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, tabs.Entry{Tab: t2, Screen: "R2"}, entries[0])
	assert.Equal(t, tabs.Entry{Tab: t1, Screen: "S2"}, entries[1])
	assert.Equal(t, tabs.Entry{Tab: t1, Screen: "R1"}, entries[2])

	require.True(t, f.back(t))
	tab, screen := f.current(t)
	assert.Equal(t, t2, tab)
	assert.Equal(t, "R2", screen)

	f.rec.Reset()
	require.True(t, f.back(t))
	tab, screen = f.current(t)
	assert.Equal(t, t1, tab)
	assert.Equal(t, "S2", screen)
	assert.Equal(t, []nav.Event{
		tabs.SwitchTabEvent{Tab: t1},
		tabs.CloseTabScreenEvent{Tab: t2, Screen: "R2"},
	}, f.rec.Events)

	require.True(t, f.back(t))
	tab, screen = f.current(t)
	assert.Equal(t, t1, tab)
	assert.Equal(t, "R1", screen)
	assert.True(t, f.nav.BackStack().IsEmpty())

	assert.False(t, f.back(t), "nothing left to go back to")
}

func TestOpenInTabRecordsPrevious(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.container.Current().(*navtest.Screen).State = nav.Memento("scroll")

	f.do(t, tabs.OpenInTab{Screen: navtest.NewScreen("S2", nav.Args{"id": "4"}), AddToBackStack: true})

	e, ok := f.nav.BackStack().Peek(t1)
	require.True(t, ok)
	assert.Equal(t, "R1", e.Screen)
	assert.Equal(t, nav.Memento("scroll"), e.State)
	assert.Equal(t, navtest.Shown{Screen: "S2", Transition: nav.TransitionOpen}, f.container.History[1])
	assert.Equal(t, []string{
		"switch to tab t1#1",
		"open R1 in tab t1#1",
		"open S2 in tab t1#1",
	}, f.rec.Messages())
}

func TestOpenInTabWithoutRecord(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.do(t, open(t1, "S2", false))
	assert.True(t, f.nav.BackStack().IsEmpty())
}

func TestOpenInCurrentTabWithoutTab(t *testing.T) {
	f := newFixture(t)
	_, err := f.nav.Navigate(tabs.OpenInTab{Screen: navtest.NewScreen("S", nil)})
	assert.ErrorIs(t, err, nav.ErrNoCurrentTab)
	assert.Nil(t, f.container.Current())
}

func TestSwitchTabRestoresState(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.container.Current().(*navtest.Screen).State = nav.Memento("cursor=2")
	f.do(t, tabs.SwitchTab{Tab: t2})
	f.do(t, tabs.SwitchTab{Tab: t1})

	s := f.container.Current().(*navtest.Screen)
	assert.Equal(t, "R1", s.Type())
	assert.Equal(t, nav.Memento("cursor=2"), s.State)
	assert.Equal(t, 1, s.Restored)

	// T1 was popped, T2's root went on the stack.
	assert.Equal(t, []string{"R2"}, screensOf(f.nav.BackStack().Entries()))
}

func TestSwitchTabToCurrentIsNoop(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.rec.Reset()
	shown := len(f.container.History)

	f.do(t, tabs.SwitchTab{Tab: t1})
	assert.Empty(t, f.rec.Events)
	assert.Len(t, f.container.History, shown)
}

func TestSwitchTabFactoryFailureLeavesState(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	boom := errors.New("no such screen")
	f.factory.Fail = map[string]error{"R2": boom}

	_, err := f.nav.Navigate(tabs.SwitchTab{Tab: t2})
	assert.ErrorIs(t, err, boom)
	tab, screen := f.current(t)
	assert.Equal(t, t1, tab)
	assert.Equal(t, "R1", screen)
	assert.True(t, f.nav.BackStack().IsEmpty())
}

func TestBackConsumedByScreen(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	s := navtest.NewScreen("S2", nil)
	s.ConsumeBack = 1
	f.do(t, tabs.OpenInTab{Screen: s, AddToBackStack: true})
	f.rec.Reset()

	require.True(t, f.back(t))
	assert.Same(t, s, f.container.Current())
	assert.Empty(t, f.rec.Events)

	require.True(t, f.back(t))
	_, screen := f.current(t)
	assert.Equal(t, "R1", screen)
}

func TestBackFallsToRoot(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "S2", false))

	require.True(t, f.back(t))
	_, screen := f.current(t)
	assert.Equal(t, "R1", screen)
	assert.Equal(t, navtest.Shown{Screen: "R1", Transition: nav.TransitionClose}, f.container.History[1])
}

func TestBackFallsToMainTab(t *testing.T) {
	f := newFixture(t, tabs.WithMainTab(t1))
	f.do(t, open(t2, "R2", false))

	require.True(t, f.back(t))
	tab, screen := f.current(t)
	assert.Equal(t, t1, tab)
	assert.Equal(t, "R1", screen)

	assert.False(t, f.back(t))
	main, ok := f.nav.MainTab()
	require.True(t, ok)
	assert.Equal(t, t1, main)
}

func TestBackWithoutCurrentTab(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.back(t))
}

func TestClearBackStackThenBack(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.do(t, open(t1, "S2", true))
	f.do(t, tabs.SwitchTab{Tab: t2})
	f.do(t, open(t2, "S3", true))
	f.do(t, tabs.ClearBackStack{Tab: &t1})
	assert.Equal(t, 0, f.nav.BackStack().Size(t1))
	assert.Equal(t, 1, f.nav.BackStack().Len())

	f.do(t, tabs.ClearBackStack{})
	assert.True(t, f.nav.BackStack().IsEmpty())

	// Only the root fallback is left.
	require.True(t, f.back(t))
	_, screen := f.current(t)
	assert.Equal(t, "R2", screen)
	assert.False(t, f.back(t))
}

func TestBackToRoot(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.container.Current().(*navtest.Screen).State = nav.Memento("root-state")
	f.do(t, open(t1, "S2", true))
	f.do(t, open(t3, "X", true))
	f.do(t, open(t1, "S3", true))
	f.do(t, open(t1, "S4", true))
	f.rec.Reset()

	f.do(t, tabs.BackToRoot{})

	s := f.container.Current().(*navtest.Screen)
	assert.Equal(t, "R1", s.Type())
	assert.Equal(t, nav.Memento("root-state"), s.State)
	assert.Equal(t, 0, f.nav.BackStack().Size(t1))
	assert.Equal(t, 1, f.nav.BackStack().Size(t3), "other tabs keep their entries")
	assert.Equal(t, []nav.Event{tabs.CloseTabScreenEvent{Tab: t1, Screen: "S4"}}, f.rec.Events)

	f.rec.Reset()
	f.do(t, tabs.BackToRoot{})
	assert.Empty(t, f.rec.Events, "already at root")
}

func TestBackToRootInstantiatesMissingRoot(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "S2", false))
	f.do(t, open(t1, "S3", true))

	f.do(t, tabs.BackToRoot{})
	_, screen := f.current(t)
	assert.Equal(t, "R1", screen)
	assert.Contains(t, f.factory.Created, "R1")
	assert.True(t, f.nav.BackStack().IsEmpty())
}

func TestReselectTab(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.do(t, open(t1, "S2", true))

	f.do(t, tabs.ReselectTab{})
	_, screen := f.current(t)
	assert.Equal(t, "R1", screen)

	root := f.container.Current().(*navtest.Screen)
	root.ConsumeReselect = true
	f.do(t, tabs.ReselectTab{})
	assert.Equal(t, 1, root.Reselected)
	assert.Same(t, root, f.container.Current())
}

func TestReselectWithoutTab(t *testing.T) {
	f := newFixture(t)
	_, err := f.nav.Navigate(tabs.ReselectTab{})
	assert.ErrorIs(t, err, nav.ErrNoCurrentTab)
	_, err = f.nav.Navigate(tabs.BackToRoot{})
	assert.ErrorIs(t, err, nav.ErrNoCurrentTab)
}

func TestIgnoresForeignCommands(t *testing.T) {
	f := newFixture(t)
	handled, err := f.nav.Navigate(navtest.Command("forward"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestStateRoundTrip(t *testing.T) {
	f := newFixture(t, tabs.WithStateKey("main_tabs"))
	f.do(t, open(t1, "R1", false))
	f.do(t, open(t1, "S2", true))
	f.do(t, tabs.SwitchTab{Tab: t2})

	state := nav.State{}
	require.NoError(t, f.nav.SaveState(state))
	require.Contains(t, state, "main_tabs")

	g := newFixture(t, tabs.WithStateKey("main_tabs"))
	require.NoError(t, g.nav.RestoreState(state))
	assert.Equal(t, f.nav.BackStack().Entries(), g.nav.BackStack().Entries())

	h := newFixture(t)
	require.NoError(t, h.nav.RestoreState(state), "missing key is not an error")
	assert.True(t, h.nav.BackStack().IsEmpty())
}

func TestClearDropsHistory(t *testing.T) {
	f := newFixture(t)
	f.do(t, open(t1, "R1", false))
	f.do(t, tabs.SwitchTab{Tab: t2})
	f.nav.Clear()
	assert.True(t, f.nav.BackStack().IsEmpty())
}

func screensOf(entries []tabs.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Screen)
	}
	return out
}
