package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "w.log")
	var console bytes.Buffer
	l, err := New(Options{Level: "debug", File: path, Console: true, Stderr: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log := l.Component("router")
	log.Debug().Msg("open screen home")
	log.Info().Msg("ready")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"component":"router"`) || !strings.Contains(string(data), "open screen home") {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(console.String(), "ready") {
		t.Errorf("console = %s", console.String())
	}
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	l, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatal(err)
	}
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log file = %s", data)
	}
}

func TestDiscard(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	l.Error().Msg("nowhere")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}
