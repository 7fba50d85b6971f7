package nav

// Args are the arguments a screen was created with.
type Args map[string]string

// Clone returns an independent copy of a.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Memento is the opaque saved state of a screen. The navigation core stores
// and returns it unchanged; only the screen that produced it reads it.
type Memento []byte

// Screen is a live screen instance.
type Screen interface {
	// Type returns the screen-type identifier used to recreate the screen.
	Type() string
	// Args returns the arguments the screen was created with.
	Args() Args
	// SaveState captures the screen's state before it is replaced.
	SaveState() Memento
	// RestoreState reapplies a previously captured state.
	RestoreState(Memento)
}

// BackHandler is implemented by screens that may consume a back request
// themselves (closing a search field, dismissing a selection).
type BackHandler interface {
	HandleBack() bool
}

// TabReselectHandler is implemented by screens that react when the tab they
// are shown in is selected again.
type TabReselectHandler interface {
	HandleTabReselect() bool
}

// Factory produces screen instances from a screen-type identifier.
type Factory interface {
	Instantiate(screenType string, args Args) (Screen, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(screenType string, args Args) (Screen, error)

// Instantiate calls f.
func (f FactoryFunc) Instantiate(screenType string, args Args) (Screen, error) {
	return f(screenType, args)
}

// Transition is the animation style requested from a container.
type Transition string

const (
	TransitionNone  Transition = ""
	TransitionOpen  Transition = "open"
	TransitionClose Transition = "close"
	TransitionFade  Transition = "fade"
)

// Container is the host capability that actually displays a zone's screen.
type Container interface {
	// Current returns the screen on display, or nil.
	Current() Screen
	// Show replaces the screen on display.
	Show(s Screen, t Transition)
}

// StackContainer is a Container that keeps its own screen hierarchy with
// back-stack markers. Linear units defer their stack identity to it.
type StackContainer interface {
	Container
	// CurrentTag returns the tag of the screen on display.
	CurrentTag() string
	// Push shows s and records a back-stack marker.
	Push(s Screen, tag string, t Transition)
	// Replace shows s in place of the current screen without a marker.
	Replace(s Screen, tag string, t Transition)
	// Pop reverts the most recent marker. It reports false when there is
	// nothing to pop.
	Pop() bool
	// PopAll reverts every marker.
	PopAll()
	// Depth returns the number of markers.
	Depth() int
	// Tags returns the tags reachable by popping, topmost first, starting
	// with the current screen.
	Tags() []string
}

// RootResetter is implemented by stack containers that can drop every
// marker and show a new root as one change. Containers without it get
// PopAll followed by Replace.
type RootResetter interface {
	ResetRoot(s Screen, tag string, t Transition)
}

// Host is the terminal capability behind every zone: the application shell.
type Host interface {
	// Name identifies the host in launch and finish events.
	Name() string
	// Finish exits the host. Called when no unit consumes a back request.
	Finish()
}
