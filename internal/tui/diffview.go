package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/wayfinder/pkg/jsonutil"
)

// renderDiffView renders how the persisted navigator state has changed
// since launch, one line per changed key.
func renderDiffView(m *Model, width, height int) string {
	title := panelTitleStyle.Render("State Diff")

	diffs, err := jsonutil.ComputeJSONDiff(m.launchState, m.stateJSON())
	if err != nil {
		return title + "\n" + eventErrorStyle.Render(err.Error())
	}
	if len(diffs) == 0 {
		return title + "\n" +
			diffContextStyle.Render("Navigator state unchanged since launch.")
	}

	title += dimStyle.Render(fmt.Sprintf("  %d changes", len(diffs)))

	var lines []string
	for _, d := range diffs {
		switch d.Type {
		case jsonutil.DiffAdd:
			lines = append(lines,
				diffAddStyle.Render("+ "+d.Path+": "+jsonutil.TruncateString(d.NewValue, width-len(d.Path)-6)))
		case jsonutil.DiffDelete:
			lines = append(lines,
				diffDelStyle.Render("- "+d.Path+": "+jsonutil.TruncateString(d.OldValue, width-len(d.Path)-6)))
		case jsonutil.DiffUpdate:
			lines = append(lines, diffModStyle.Render("~ "+d.Path))
			lines = append(lines,
				"  "+diffDelStyle.Render("- "+jsonutil.TruncateString(d.OldValue, width-6)))
			lines = append(lines,
				"  "+diffAddStyle.Render("+ "+jsonutil.TruncateString(d.NewValue, width-6)))
		}
	}

	contentHeight := height - 1
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	return title + "\n" + strings.Join(lines, "\n")
}

// renderDiffPanel wraps the diff view in a styled panel.
func renderDiffPanel(m *Model, width, height int) string {
	content := renderDiffView(m, width-4, height-2)
	return panelStyle.Width(width).Height(height).Render(content)
}
