// Package navtest provides in-memory screens, factories, containers and
// hosts for testing navigation units.
package navtest

import (
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Screen is a scriptable nav.Screen.
type Screen struct {
	Kind      string
	Arguments nav.Args
	State     nav.Memento

	// ConsumeBack makes HandleBack report true once per unit of the counter.
	ConsumeBack int
	// ConsumeReselect makes HandleTabReselect report true.
	ConsumeReselect bool

	Reselected int
	Restored   int
}

// NewScreen returns a screen of type kind.
func NewScreen(kind string, args nav.Args) *Screen {
	return &Screen{Kind: kind, Arguments: args}
}

func (s *Screen) Type() string           { return s.Kind }
func (s *Screen) Args() nav.Args         { return s.Arguments }
func (s *Screen) SaveState() nav.Memento { return s.State }

func (s *Screen) RestoreState(m nav.Memento) {
	s.State = m
	s.Restored++
}

func (s *Screen) HandleBack() bool {
	if s.ConsumeBack > 0 {
		s.ConsumeBack--
		return true
	}
	return false
}

func (s *Screen) HandleTabReselect() bool {
	s.Reselected++
	return s.ConsumeReselect
}

// Factory creates Screens and records every instantiation.
type Factory struct {
	Created []string
	// Fail makes Instantiate fail for the listed screen types.
	Fail map[string]error
}

// Instantiate returns a fresh Screen of screenType.
func (f *Factory) Instantiate(screenType string, args nav.Args) (nav.Screen, error) {
	if err, ok := f.Fail[screenType]; ok {
		return nil, err
	}
	f.Created = append(f.Created, screenType)
	return NewScreen(screenType, args), nil
}

// Shown is one Show call seen by a Container.
type Shown struct {
	Screen     string
	Transition nav.Transition
}

// Container is a single-slot nav.Container that records what it showed.
type Container struct {
	current nav.Screen
	History []Shown
}

func (c *Container) Current() nav.Screen { return c.current }

func (c *Container) Show(s nav.Screen, t nav.Transition) {
	c.current = s
	c.History = append(c.History, Shown{Screen: s.Type(), Transition: t})
}

// Host counts Finish calls.
type Host struct {
	HostName string
	Finished int
}

func (h *Host) Name() string {
	if h.HostName == "" {
		return "test"
	}
	return h.HostName
}

func (h *Host) Finish() { h.Finished++ }

// Recorder collects events.
type Recorder struct {
	Events []nav.Event
}

// Record appends ev. Pass it to Subscribe.
func (r *Recorder) Record(ev nav.Event) {
	r.Events = append(r.Events, ev)
}

// Messages returns the message of every recorded event.
func (r *Recorder) Messages() []string {
	out := make([]string, 0, len(r.Events))
	for _, ev := range r.Events {
		out = append(out, ev.Message())
	}
	return out
}

// Reset forgets the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// Command is an arbitrary command no unit recognises unless told to.
type Command string

func (c Command) CommandName() string { return string(c) }

func (c Command) String() string { return fmt.Sprintf("command(%s)", string(c)) }

var (
	_ nav.Screen             = (*Screen)(nil)
	_ nav.BackHandler        = (*Screen)(nil)
	_ nav.TabReselectHandler = (*Screen)(nil)
	_ nav.Factory            = (*Factory)(nil)
	_ nav.Container          = (*Container)(nil)
	_ nav.Host               = (*Host)(nil)
	_ nav.Command            = Command("")
)
