package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Palette
// ────────────────────────────────────────────────────────────

// palette names colors by what they mark on screen. Styles below only
// refer to these.
var palette = struct {
	surface lipgloss.Color
	fg      lipgloss.Color
	subtle  lipgloss.Color
	faint   lipgloss.Color
	rule    lipgloss.Color

	tabZone     lipgloss.Color // tabbed zone, titles, brand
	overlayZone lipgloss.Color // overlay zone, host lifecycle
	activeTab   lipgloss.Color

	opened   lipgloss.Color
	closed   lipgloss.Color
	switched lipgloss.Color
	failed   lipgloss.Color
}{
	surface: "#1c2128",
	fg:      "#e6edf3",
	subtle:  "#8b949e",
	faint:   "#484f58",
	rule:    "#30363d",

	tabZone:     "#58a6ff",
	overlayZone: "#bc8cff",
	activeTab:   "#1f6feb",

	opened:   "#3fb950",
	closed:   "#d29922",
	switched: "#76e3ea",
	failed:   "#f85149",
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bar(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(palette.surface).Foreground(c).Padding(0, 1)
}

func ruled(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.Border{Top: "─"}).BorderForeground(c)
}

// ────────────────────────────────────────────────────────────
// Styles
// ────────────────────────────────────────────────────────────

// Header and tab bar
var (
	headerBarStyle   = bar(palette.fg)
	headerBrandStyle = fg(palette.tabZone).Bold(true)
	headerSepStyle   = fg(palette.faint)
	headerMetaStyle  = fg(palette.subtle)

	tabActiveStyle   = lipgloss.NewStyle().Background(palette.activeTab).Foreground(palette.fg).Bold(true).Padding(0, 1)
	tabInactiveStyle = fg(palette.subtle).Padding(0, 1)
)

// Panels; the overlay zone gets its own frame color.
var (
	panelStyle       = ruled(palette.rule)
	panelActiveStyle = ruled(palette.tabZone)
	overlayStyle     = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(palette.overlayZone)

	panelTitleStyle = fg(palette.tabZone).Bold(true)
	dimStyle        = fg(palette.subtle)
	emptyStateStyle = fg(palette.faint).Padding(2, 4)
)

// History pane
var (
	detailLabelStyle     = fg(palette.tabZone)
	detailValueStyle     = fg(palette.fg)
	detailSectionStyle   = fg(palette.rule)
	depthBarStyle        = fg(palette.tabZone)
	depthBarOverlayStyle = fg(palette.overlayZone)
)

// Event pane, one color per event kind
var (
	eventOpenStyle      = fg(palette.opened)
	eventCloseStyle     = fg(palette.closed)
	eventSwitchStyle    = fg(palette.switched)
	eventHostStyle      = fg(palette.overlayZone)
	eventErrorStyle     = fg(palette.failed)
	eventTimestampStyle = fg(palette.faint)
)

// State diff
var (
	diffAddStyle     = fg(palette.opened)
	diffDelStyle     = fg(palette.failed)
	diffModStyle     = fg(palette.closed)
	diffContextStyle = fg(palette.faint)
)

// Footer
var (
	statusStyle      = bar(palette.fg)
	statusErrorStyle = bar(palette.failed)

	hintKeyStyle  = fg(palette.fg).Bold(true)
	hintDescStyle = fg(palette.faint)
	hintSepStyle  = fg(palette.rule)
)
