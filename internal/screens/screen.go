// Package screens holds the screen registry used as the navigation factory
// and the demo screens shown by the terminal host.
package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Screen is a nav.Screen the terminal host can draw and feed keys to.
type Screen interface {
	nav.Screen
	Title() string
	View(width, height int) string
	// Update handles a key. A non-nil Intent asks the host to open a screen.
	Update(msg tea.KeyMsg) *Intent
}

// Capturer is implemented by screens that take text input. While such a
// screen is focused the host hands it every printable key.
type Capturer interface {
	Capturing() bool
}

// Intent is a screen's request to open another screen.
type Intent struct {
	Screen string
	Args   nav.Args
	// Overlay opens the screen above the tabs instead of inside the
	// current tab.
	Overlay bool
}

// base carries the parts every demo screen shares.
type base struct {
	kind string
	args nav.Args
}

func (b base) Type() string              { return b.kind }
func (b base) Args() nav.Args            { return b.args }
func (b base) SaveState() nav.Memento    { return nil }
func (b base) RestoreState(nav.Memento)  {}
func (b base) Update(tea.KeyMsg) *Intent { return nil }

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e6edf3"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1f6feb")).
			Foreground(lipgloss.Color("#e6edf3")).
			Bold(true)
	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58"))
)
