// Package timeutil formats the Unix-nanosecond timestamps wayfinder stores
// for sessions, events and saved state.
package timeutil

import (
	"fmt"
	"time"
)

// FromNano converts Unix nanoseconds to a time.Time.
func FromNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// NowNano returns the current time as Unix nanoseconds.
func NowNano() int64 {
	return time.Now().UnixNano()
}

// FormatTimestamp renders ns as "HH:MM:SS.mmm" for event lines.
func FormatTimestamp(ns int64) string {
	return FromNano(ns).Format("15:04:05.000")
}

// FormatTimestampFull renders ns with the date: "2006-01-02 15:04:05".
func FormatTimestampFull(ns int64) string {
	return FromNano(ns).Format("2006-01-02 15:04:05")
}

// FormatDuration renders milliseconds as "450ms", "1.2s" or "2m 15.3s".
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
}

// RelativeTime renders ns relative to now: "just now", "5s ago", "3d ago".
func RelativeTime(ns int64) string {
	return relative(time.Since(FromNano(ns)))
}

func relative(diff time.Duration) string {
	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
