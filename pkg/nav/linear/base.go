package linear

import (
	"errors"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

var errNilScreen = errors.New("linear: nil screen")

// base holds what both linear units share: the container, the event stream
// and the back behaviour.
type base struct {
	container nav.StackContainer
	events    nav.Emitter
}

func (b *base) open(s nav.Screen, tag string, push bool, t nav.Transition) error {
	if s == nil {
		return errNilScreen
	}
	if tag == "" {
		tag = s.Type()
	}
	if push {
		b.container.Push(s, tag, t)
	} else {
		b.container.Replace(s, tag, t)
	}
	b.events.Emit(nav.OpenScreenEvent{Tag: tag})
	return nil
}

// resetRoot leaves s as the only screen, reporting a single change when the
// container supports it.
func (b *base) resetRoot(s nav.Screen, t nav.Transition) error {
	if s == nil {
		return errNilScreen
	}
	r, ok := b.container.(nav.RootResetter)
	if !ok {
		b.container.PopAll()
		return b.open(s, "", false, t)
	}
	tag := s.Type()
	r.ResetRoot(s, tag, t)
	b.events.Emit(nav.OpenScreenEvent{Tag: tag})
	return nil
}

// Back pops one level and reports the screen that was on display. It returns
// false when there is nothing to pop.
func (b *base) Back() (bool, error) {
	if b.container.Current() == nil || b.container.Depth() == 0 {
		return false, nil
	}
	tag := b.container.CurrentTag()
	if !b.container.Pop() {
		return false, nil
	}
	b.events.Emit(nav.CloseScreenEvent{Tag: tag})
	return true, nil
}

// Clear pops every level.
func (b *base) Clear() {
	b.container.PopAll()
}

// Subscribe registers fn for screen events.
func (b *base) Subscribe(fn func(nav.Event)) nav.Subscription {
	return b.events.Subscribe(fn)
}

// SaveState does nothing: the container owns the hierarchy.
func (b *base) SaveState(nav.State) error { return nil }

// RestoreState does nothing: the container owns the hierarchy.
func (b *base) RestoreState(nav.State) error { return nil }
