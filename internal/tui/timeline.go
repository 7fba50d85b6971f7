package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/jsonutil"
	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

// eventLine is one row of the event pane.
type eventLine struct {
	timestamp int64
	kind      string
	message   string
	depth     int
}

// pushEvent appends rec to the pane history, dropping the oldest rows past
// maxEvents.
func (m *Model) pushEvent(rec *database.NavEvent) {
	ts := rec.Timestamp
	if ts == 0 {
		ts = timeutil.NowNano()
	}
	m.events = append(m.events, eventLine{
		timestamp: ts,
		kind:      rec.Kind,
		message:   rec.Message,
		depth:     rec.Depth,
	})
	if over := len(m.events) - maxEvents; over > 0 {
		m.events = m.events[over:]
	}
}

// renderTimeline renders the most recent navigation events, newest last.
func renderTimeline(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Events")
	title += dimStyle.Render(fmt.Sprintf("  %d", len(m.events)))

	if len(m.events) == 0 {
		return title + "\n\n" + emptyStateStyle.Render("No navigation yet.")
	}

	var lines []string
	lines = append(lines, title)

	contentHeight := height - 1
	start := max(0, len(m.events)-contentHeight)

	for _, ev := range m.events[start:] {
		ts := eventTimestampStyle.Render(timeutil.FormatTimestamp(ev.timestamp))
		msg := jsonutil.TruncateString(ev.message, width-16)
		lines = append(lines, ts+" "+eventStyle(ev.kind).Render(msg))
	}

	return strings.Join(lines, "\n")
}

// eventStyle colors an event row by kind.
func eventStyle(kind string) lipgloss.Style {
	switch kind {
	case database.KindOpen:
		return eventOpenStyle
	case database.KindClose, database.KindBack:
		return eventCloseStyle
	case database.KindSwitchTab:
		return eventSwitchStyle
	case database.KindLaunch, database.KindFinish:
		return eventHostStyle
	case database.KindError:
		return eventErrorStyle
	default:
		return dimStyle
	}
}

// renderEventPanel stacks the history pane above the event timeline.
func renderEventPanel(m *Model, width, height int) string {
	historyHeight := height * 45 / 100
	eventsHeight := height - historyHeight

	events := panelStyle.Width(width).Height(eventsHeight).
		Render(renderTimeline(m, width-4, eventsHeight-2))
	return lipgloss.JoinVertical(lipgloss.Left, renderDetailPanel(m, width, historyHeight), events)
}
