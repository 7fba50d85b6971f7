package tabs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// DefaultStateKey is the key the back stack is persisted under.
const DefaultStateKey = "tabs_back_stack"

var errNilScreen = errors.New("tabs: nil screen")

// Navigation is the tabbed navigation unit.
type Navigation struct {
	container nav.Container
	factory   nav.Factory
	mainTab   *Tab
	stateKey  string

	stack   *BackStack
	current *Tab
	events  nav.Emitter
}

// Option configures a Navigation.
type Option func(*Navigation)

// WithMainTab designates the tab a back request falls back to once every
// other history is exhausted.
func WithMainTab(t Tab) Option {
	return func(n *Navigation) { n.mainTab = &t }
}

// WithStateKey overrides DefaultStateKey, for hosts with several tab zones.
func WithStateKey(key string) Option {
	return func(n *Navigation) { n.stateKey = key }
}

// New creates a tabbed unit showing its screens in container and creating
// them with factory.
func New(container nav.Container, factory nav.Factory, opts ...Option) *Navigation {
	n := &Navigation{
		container: container,
		factory:   factory,
		stateKey:  DefaultStateKey,
		stack:     &BackStack{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// CurrentTab returns the current tab, if one has been shown.
func (n *Navigation) CurrentTab() (Tab, bool) {
	if n.current == nil {
		return Tab{}, false
	}
	return *n.current, true
}

// CurrentScreen returns the screen the container is showing.
func (n *Navigation) CurrentScreen() nav.Screen {
	return n.container.Current()
}

// MainTab returns the designated main tab.
func (n *Navigation) MainTab() (Tab, bool) {
	if n.mainTab == nil {
		return Tab{}, false
	}
	return *n.mainTab, true
}

// BackStack exposes the shared back stack for inspection.
func (n *Navigation) BackStack() *BackStack {
	return n.stack
}

// Navigate applies the tab commands and ignores everything else.
func (n *Navigation) Navigate(cmd nav.Command) (bool, error) {
	var err error
	switch c := cmd.(type) {
	case OpenInTab:
		err = n.openInTab(c.Tab, c.Screen, c.AddToBackStack)
	case SwitchTab:
		err = n.switchTab(c.Tab)
	case ReselectTab:
		err = n.reselectTab()
	case ClearBackStack:
		n.clearBackStack(c.Tab)
	case BackToRoot:
		err = n.backToRoot()
	default:
		return false, nil
	}
	return true, err
}

func (n *Navigation) openInTab(tab *Tab, screen nav.Screen, addToBackStack bool) error {
	if screen == nil {
		return errNilScreen
	}
	if tab == nil {
		if n.current == nil {
			return fmt.Errorf("open %s in current tab: %w", screen.Type(), nav.ErrNoCurrentTab)
		}
		tab = n.current
	}
	target := *tab

	previousTab := n.current
	previous := n.container.Current()
	if addToBackStack && previous != nil && previousTab != nil {
		n.stack.Push(NewEntry(*previousTab, previous))
	}
	n.container.Show(screen, nav.TransitionOpen)
	n.setCurrent(target)
	n.events.Emit(OpenTabScreenEvent{Tab: target, Screen: screen.Type()})
	return nil
}

func (n *Navigation) switchTab(tab Tab) error {
	if n.current != nil && *n.current == tab {
		return nil
	}
	var screen nav.Screen
	if e, ok := n.stack.Peek(tab); ok {
		s, err := e.Recreate(n.factory)
		if err != nil {
			return err
		}
		n.stack.Pop(tab)
		screen = s
	} else {
		s, err := n.instantiateRoot(tab)
		if err != nil {
			return err
		}
		screen = s
	}
	return n.openInTab(&tab, screen, true)
}

func (n *Navigation) reselectTab() error {
	tab, screen, err := n.requireCurrent("reselect tab")
	if err != nil {
		return err
	}
	if h, ok := screen.(nav.TabReselectHandler); ok && h.HandleTabReselect() {
		return nil
	}
	if !tab.IsRoot(screen) {
		return n.backToRoot()
	}
	return nil
}

func (n *Navigation) clearBackStack(tab *Tab) {
	if tab != nil {
		n.stack.Clear(*tab)
		return
	}
	n.stack.ClearAll()
}

func (n *Navigation) backToRoot() error {
	tab, screen, err := n.requireCurrent("back to root")
	if err != nil {
		return err
	}
	if tab.IsRoot(screen) {
		return nil
	}

	var root nav.Screen
	if e, ok := n.stack.Oldest(tab); ok && e.Screen == tab.Root {
		root, err = e.Recreate(n.factory)
	} else {
		root, err = n.instantiateRoot(tab)
	}
	if err != nil {
		return err
	}

	if n.stack.Size(tab) > 1 {
		if err := n.stack.ResetToRoot(tab); err != nil {
			return err
		}
	}
	n.stack.Pop(tab)
	n.restore(root, tab)
	n.events.Emit(CloseTabScreenEvent{Tab: tab, Screen: screen.Type()})
	return nil
}

// Back walks the fallbacks in order: the screen's own handler, the current
// tab's history, the current tab's root, the most recent entry of any tab,
// and finally the main tab.
func (n *Navigation) Back() (bool, error) {
	if n.current == nil {
		return false, nil
	}
	tab := *n.current
	screen := n.container.Current()
	if screen == nil {
		return false, nil
	}
	if h, ok := screen.(nav.BackHandler); ok && h.HandleBack() {
		return true, nil
	}

	switch {
	case !n.stack.Empty(tab):
		e, _ := n.stack.Peek(tab)
		s, err := e.Recreate(n.factory)
		if err != nil {
			return false, err
		}
		n.stack.Pop(tab)
		n.restore(s, tab)

	case !tab.IsRoot(screen):
		s, err := n.instantiateRoot(tab)
		if err != nil {
			return false, err
		}
		n.restore(s, tab)

	case !n.stack.IsEmpty():
		e, _ := n.stack.PeekTop()
		s, err := e.Recreate(n.factory)
		if err != nil {
			return false, err
		}
		n.stack.PopTop()
		n.restore(s, e.Tab)

	case n.mainTab != nil && *n.mainTab != tab:
		s, err := n.instantiateRoot(*n.mainTab)
		if err != nil {
			return false, err
		}
		n.restore(s, *n.mainTab)

	default:
		return false, nil
	}

	n.events.Emit(CloseTabScreenEvent{Tab: tab, Screen: screen.Type()})
	return true, nil
}

// Clear drops every tab's history.
func (n *Navigation) Clear() {
	n.stack.ClearAll()
}

// Subscribe registers fn for tab events.
func (n *Navigation) Subscribe(fn func(nav.Event)) nav.Subscription {
	return n.events.Subscribe(fn)
}

// SaveState stores the back stack under the unit's state key.
func (n *Navigation) SaveState(s nav.State) error {
	b, err := json.Marshal(n.stack)
	if err != nil {
		return fmt.Errorf("encoding tab back stack: %w", err)
	}
	s[n.stateKey] = b
	return nil
}

// RestoreState replaces the back stack with the one stored in s, if any.
func (n *Navigation) RestoreState(s nav.State) error {
	raw, ok := s[n.stateKey]
	if !ok {
		return nil
	}
	stack := &BackStack{}
	if err := json.Unmarshal(raw, stack); err != nil {
		return err
	}
	n.stack = stack
	return nil
}

// restore shows screen with a backward transition and makes tab current.
func (n *Navigation) restore(screen nav.Screen, tab Tab) {
	n.container.Show(screen, nav.TransitionClose)
	n.setCurrent(tab)
}

func (n *Navigation) setCurrent(tab Tab) {
	current, events := transitionTab(n.current, tab)
	n.current = current
	for _, ev := range events {
		n.events.Emit(ev)
	}
}

// transitionTab is the current-tab transition: it returns the new current tab
// and the events the change produces.
func transitionTab(current *Tab, next Tab) (*Tab, []nav.Event) {
	if current != nil && *current == next {
		return current, nil
	}
	return &next, []nav.Event{SwitchTabEvent{Tab: next}}
}

func (n *Navigation) instantiateRoot(tab Tab) (nav.Screen, error) {
	s, err := n.factory.Instantiate(tab.Root, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating root of tab %s: %w", tab, err)
	}
	return s, nil
}

func (n *Navigation) requireCurrent(op string) (Tab, nav.Screen, error) {
	if n.current == nil {
		return Tab{}, nil, fmt.Errorf("%s: %w", op, nav.ErrNoCurrentTab)
	}
	screen := n.container.Current()
	if screen == nil {
		return Tab{}, nil, fmt.Errorf("%s: %w", op, nav.ErrNoCurrentScreen)
	}
	return *n.current, screen, nil
}

var _ nav.Unit = (*Navigation)(nil)
