package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/wayfinder/pkg/jsonutil"
)

// renderDetail renders the history pane: where the user is and what a back
// request would return to.
func renderDetail(m *Model, width, height int) string {
	title := panelTitleStyle.Render("History")

	var lines []string
	lines = append(lines, title)
	lines = append(lines, "")

	// ── Position ──

	if tab, ok := m.tabbed.CurrentTab(); ok {
		lines = append(lines, detailRow("Tab", tab.String()))
	}
	lines = append(lines, detailRow("Screen", m.tabStack.CurrentTag()))
	if tag := m.overlayStack.CurrentTag(); tag != "" {
		lines = append(lines, detailRow("Overlay", tag))
	}
	if m.lastTransition != "" {
		lines = append(lines, detailRow("Transition", string(m.lastTransition)))
	}

	// ── Depth ──

	stack := m.tabbed.BackStack()
	tabDepth := stack.Len()
	overlayDepth := m.overlayStack.Depth()
	total := tabDepth + overlayDepth

	lines = append(lines, "")
	lines = append(lines, detailSectionStyle.Render("Depth"))
	lines = append(lines, detailRow("Tabs", fmt.Sprintf("%d", tabDepth)))
	lines = append(lines, detailRow("Overlay", fmt.Sprintf("%d", overlayDepth)))

	barWidth := min(width-6, 40)
	if barWidth > 4 && total > 0 {
		filled := min(total, barWidth)
		tabW := filled * tabDepth / total
		bar := depthBarStyle.Render(strings.Repeat("█", tabW)) +
			depthBarOverlayStyle.Render(strings.Repeat("█", filled-tabW))
		lines = append(lines, bar)
	}

	// ── Back stack ──

	entries := stack.Entries()
	if len(entries) > 0 {
		lines = append(lines, "")
		lines = append(lines, detailSectionStyle.Render("Back Stack"))
		for _, e := range entries {
			row := fmt.Sprintf("%s › %s", e.Tab.Tag, e.Screen)
			if id := e.Args["id"]; id != "" {
				row += dimStyle.Render(" " + id)
			}
			lines = append(lines, "  "+jsonutil.TruncateString(row, width-4))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func detailRow(label, value string) string {
	return detailLabelStyle.Render(fmt.Sprintf("%-11s", label)) +
		detailValueStyle.Render(value)
}

// renderDetailPanel wraps the history pane in a styled panel.
func renderDetailPanel(m *Model, width, height int) string {
	content := renderDetail(m, width-4, height-2)
	return panelStyle.Width(width).Height(height).Render(content)
}
