package linear

import "github.com/Mr-Dark-debug/wayfinder/pkg/nav"

// Forward pushes Screen and records a back-stack marker. Tag defaults to the
// screen type; Transition defaults to the unit's default.
type Forward struct {
	Screen     nav.Screen
	Tag        string
	Transition nav.Transition
}

func (Forward) CommandName() string { return "forward" }

// Replace shows Screen in place of the current one, without a marker.
type Replace struct {
	Screen     nav.Screen
	Tag        string
	Transition nav.Transition
}

func (Replace) CommandName() string { return "replace" }

// BackTo pops until the screen tagged Tag is current.
type BackTo struct {
	Tag string
}

func (BackTo) CommandName() string { return "back_to" }

// OpenScreen shows Screen, remembering the current one when AddToBackStack.
type OpenScreen struct {
	Screen         nav.Screen
	AddToBackStack bool
}

func (OpenScreen) CommandName() string { return "open_screen" }

// OpenAsRoot clears the stack and leaves Screen as its only entry.
type OpenAsRoot struct {
	Screen nav.Screen
}

func (OpenAsRoot) CommandName() string { return "open_as_root" }

var (
	_ nav.Command = Forward{}
	_ nav.Command = Replace{}
	_ nav.Command = BackTo{}
	_ nav.Command = OpenScreen{}
	_ nav.Command = OpenAsRoot{}
)
