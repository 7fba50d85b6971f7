// Package host provides an in-memory screen container for navigation units.
//
// Stack keeps a screen hierarchy the way a windowing toolkit would: a list
// of layers where some transitions leave a back-stack marker and others
// simply replace the top layer. Renderers hook OnChange to follow what is
// on display.
package host

import "github.com/Mr-Dark-debug/wayfinder/pkg/nav"

type layer struct {
	screen nav.Screen
	tag    string
}

// Stack is an in-memory nav.StackContainer. The zero value is empty.
type Stack struct {
	layers   []layer
	markers  int
	onChange func(nav.Screen, nav.Transition)
}

// NewStack returns an empty container.
func NewStack() *Stack {
	return &Stack{}
}

// OnChange registers fn to be called with the screen on display after every
// change, nil when the container became empty.
func (s *Stack) OnChange(fn func(screen nav.Screen, t nav.Transition)) {
	s.onChange = fn
}

// Current returns the screen on display, or nil.
func (s *Stack) Current() nav.Screen {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1].screen
}

// CurrentTag returns the tag of the screen on display.
func (s *Stack) CurrentTag() string {
	if len(s.layers) == 0 {
		return ""
	}
	return s.layers[len(s.layers)-1].tag
}

// Show replaces the screen on display, tagging it with its type.
func (s *Stack) Show(sc nav.Screen, t nav.Transition) {
	s.Replace(sc, sc.Type(), t)
}

// Push shows sc on a new layer and records a back-stack marker.
func (s *Stack) Push(sc nav.Screen, tag string, t nav.Transition) {
	s.layers = append(s.layers, layer{screen: sc, tag: tag})
	s.markers++
	s.notify(t)
}

// Replace shows sc in place of the top layer.
func (s *Stack) Replace(sc nav.Screen, tag string, t nav.Transition) {
	if len(s.layers) == 0 {
		s.layers = append(s.layers, layer{screen: sc, tag: tag})
	} else {
		s.layers[len(s.layers)-1] = layer{screen: sc, tag: tag}
	}
	s.notify(t)
}

// Pop removes the top layer if a marker allows it.
func (s *Stack) Pop() bool {
	if !s.pop() {
		return false
	}
	s.notify(nav.TransitionClose)
	return true
}

// PopAll reverts every marker.
func (s *Stack) PopAll() {
	if s.markers == 0 {
		return
	}
	for s.pop() {
	}
	s.notify(nav.TransitionClose)
}

// ResetRoot drops every marker and shows sc in place of the bottom layer,
// notifying once.
func (s *Stack) ResetRoot(sc nav.Screen, tag string, t nav.Transition) {
	for s.pop() {
	}
	if len(s.layers) == 0 {
		s.layers = append(s.layers, layer{screen: sc, tag: tag})
	} else {
		s.layers[len(s.layers)-1] = layer{screen: sc, tag: tag}
	}
	s.notify(t)
}

// Depth returns the number of back-stack markers.
func (s *Stack) Depth() int {
	return s.markers
}

// Len returns the number of layers, including the one on display.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Tags returns the tags of the screens reachable by popping, topmost first.
func (s *Stack) Tags() []string {
	var tags []string
	floor := len(s.layers) - 1 - s.markers
	if floor < 0 {
		floor = 0
	}
	for i := len(s.layers) - 1; i >= floor; i-- {
		tags = append(tags, s.layers[i].tag)
	}
	return tags
}

// Snapshot returns the tags of every layer, topmost first.
func (s *Stack) Snapshot() []string {
	tags := make([]string, 0, len(s.layers))
	for i := len(s.layers) - 1; i >= 0; i-- {
		tags = append(tags, s.layers[i].tag)
	}
	return tags
}

// Reset empties the container without notifying.
func (s *Stack) Reset() {
	s.layers = nil
	s.markers = 0
}

func (s *Stack) pop() bool {
	if s.markers == 0 {
		return false
	}
	s.layers = s.layers[:len(s.layers)-1]
	s.markers--
	return true
}

func (s *Stack) notify(t nav.Transition) {
	if s.onChange != nil {
		s.onChange(s.Current(), t)
	}
}

var (
	_ nav.StackContainer = (*Stack)(nil)
	_ nav.RootResetter   = (*Stack)(nil)
)
