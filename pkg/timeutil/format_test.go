package timeutil

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:      "0ms",
		450:    "450ms",
		1200:   "1.2s",
		135300: "2m 15.3s",
	}
	for ms, want := range cases {
		if got := FormatDuration(ms); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestRelative(t *testing.T) {
	cases := []struct {
		diff time.Duration
		want string
	}{
		{0, "just now"},
		{5 * time.Second, "5s ago"},
		{2 * time.Minute, "2m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, c := range cases {
		if got := relative(c.diff); got != c.want {
			t.Errorf("relative(%v) = %q, want %q", c.diff, got, c.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ns := time.Date(2024, 3, 1, 14, 5, 9, 123_000_000, time.Local).UnixNano()
	if got := FormatTimestamp(ns); got != "14:05:09.123" {
		t.Errorf("FormatTimestamp = %q", got)
	}
	if got := FormatTimestampFull(ns); got != "2024-03-01 14:05:09" {
		t.Errorf("FormatTimestampFull = %q", got)
	}
}
