package linear

import (
	"fmt"
	"slices"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Navigation is a linear unit with explicit back-stack control.
type Navigation struct {
	base
	transition nav.Transition
}

// Option configures a Navigation.
type Option func(*Navigation)

// WithDefaultTransition sets the transition used when a command names none.
func WithDefaultTransition(t nav.Transition) Option {
	return func(n *Navigation) { n.transition = t }
}

// New creates a linear unit driving container.
func New(container nav.StackContainer, opts ...Option) *Navigation {
	n := &Navigation{
		base:       base{container: container},
		transition: nav.TransitionOpen,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate applies Forward, Replace and BackTo.
func (n *Navigation) Navigate(cmd nav.Command) (bool, error) {
	switch c := cmd.(type) {
	case Forward:
		return true, n.open(c.Screen, c.Tag, true, n.transitionOr(c.Transition))
	case Replace:
		return true, n.open(c.Screen, c.Tag, false, n.transitionOr(c.Transition))
	case BackTo:
		return true, n.backTo(c.Tag)
	default:
		return false, nil
	}
}

// backTo pops until tag is on display. The tag must be reachable; otherwise
// nothing is popped.
func (n *Navigation) backTo(tag string) error {
	if !slices.Contains(n.container.Tags(), tag) {
		return fmt.Errorf("back to %q: %w", tag, nav.ErrTagNotFound)
	}
	for n.container.CurrentTag() != tag {
		popped, err := n.Back()
		if err != nil {
			return err
		}
		if !popped {
			return fmt.Errorf("back to %q: %w", tag, nav.ErrTagNotFound)
		}
	}
	return nil
}

func (n *Navigation) transitionOr(t nav.Transition) nav.Transition {
	if t == nav.TransitionNone {
		return n.transition
	}
	return t
}

var _ nav.Unit = (*Navigation)(nil)
