package linear

import "github.com/Mr-Dark-debug/wayfinder/pkg/nav"

// Screens is the linear unit without explicit tags or transitions: it opens
// screens, optionally remembering the one they replace, and can reset the
// stack to a single root.
type Screens struct {
	base
}

// NewScreens creates a Screens unit driving container.
func NewScreens(container nav.StackContainer) *Screens {
	return &Screens{base: base{container: container}}
}

// Navigate applies OpenScreen and OpenAsRoot.
func (s *Screens) Navigate(cmd nav.Command) (bool, error) {
	switch c := cmd.(type) {
	case OpenScreen:
		return true, s.open(c.Screen, "", c.AddToBackStack, nav.TransitionOpen)
	case OpenAsRoot:
		return true, s.resetRoot(c.Screen, nav.TransitionFade)
	default:
		return false, nil
	}
}

var _ nav.Unit = (*Screens)(nil)
