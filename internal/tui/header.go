package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	WAYFINDER  │  1 home  2 browse  3 settings  │  depth 2
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("WAYFINDER")
	sep := headerSepStyle.Render(" │ ")

	current, hasCurrent := m.tabbed.CurrentTab()
	var tabParts []string
	for i, tab := range m.tabList {
		label := fmt.Sprintf("%d %s", i+1, tab.Tag)
		if hasCurrent && tab == current {
			tabParts = append(tabParts, tabActiveStyle.Render(label))
		} else {
			tabParts = append(tabParts, tabInactiveStyle.Render(label))
		}
	}

	parts := []string{brand, sep, strings.Join(tabParts, ""), sep,
		headerMetaStyle.Render(fmt.Sprintf("depth %d", m.depth()))}
	if s := m.activeScreen(); s != nil {
		parts = append(parts, sep, headerMetaStyle.Render(s.Title()))
	}

	return headerBarStyle.Width(m.width).Render(strings.Join(parts, ""))
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left string
	if m.err != nil {
		left = statusErrorStyle.Render(m.statusMsg)
	} else if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().
		Background(palette.surface).
		Width(m.width).
		Render(left + strings.Repeat(" ", gap) + right)
}
