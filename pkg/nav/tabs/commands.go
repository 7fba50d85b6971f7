package tabs

import "github.com/Mr-Dark-debug/wayfinder/pkg/nav"

// OpenInTab shows Screen in Tab, or in the current tab when Tab is nil.
// With AddToBackStack the screen it replaces is remembered.
type OpenInTab struct {
	Tab            *Tab
	Screen         nav.Screen
	AddToBackStack bool
}

func (OpenInTab) CommandName() string { return "open_in_tab" }

// SwitchTab makes Tab current, restoring its most recent screen or its root.
type SwitchTab struct {
	Tab Tab
}

func (SwitchTab) CommandName() string { return "switch_tab" }

// ReselectTab reacts to the current tab being selected again.
type ReselectTab struct{}

func (ReselectTab) CommandName() string { return "reselect_tab" }

// ClearBackStack drops Tab's history, or every tab's when Tab is nil.
type ClearBackStack struct {
	Tab *Tab
}

func (ClearBackStack) CommandName() string { return "clear_tab_back_stack" }

// BackToRoot returns the current tab to its root screen.
type BackToRoot struct{}

func (BackToRoot) CommandName() string { return "back_to_root" }

var (
	_ nav.Command = OpenInTab{}
	_ nav.Command = SwitchTab{}
	_ nav.Command = ReselectTab{}
	_ nav.Command = ClearBackStack{}
	_ nav.Command = BackToRoot{}
)
