package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WAYFINDER_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.Journal.BatchSize != 50 {
		t.Errorf("batch size = %d, want 50", cfg.Journal.BatchSize)
	}
	if cfg.Journal.FlushInterval != 500*time.Millisecond {
		t.Errorf("flush interval = %v", cfg.Journal.FlushInterval)
	}
	if len(cfg.Tabs) != len(DefaultTabs) {
		t.Fatalf("tabs = %v, want defaults", cfg.Tabs)
	}
	if _, ok := cfg.Tab(cfg.MainTab); !ok {
		t.Errorf("main tab %q not among tabs", cfg.MainTab)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
main_tab = "feed"

[log]
level = "debug"

[[tabs]]
id = 7
tag = "feed"
root = "browse"

[[tabs]]
id = 8
tag = "me"
root = "settings"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WAYFINDER_CONFIG", path)
	t.Setenv("WAYFINDER_DATABASE_PATH", "/tmp/nav.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Database.Path != "/tmp/nav.db" {
		t.Errorf("database path = %q, want env override", cfg.Database.Path)
	}
	want := tabs.Tab{ID: 7, Tag: "feed", Root: "browse"}
	if got, _ := cfg.Tab("feed"); got != want {
		t.Errorf("tab feed = %+v, want %+v", got, want)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	in := Config{
		Database: DatabaseConfig{Path: "/data/w.db"},
		Log:      LogConfig{Level: "warn"},
		Journal:  JournalConfig{BatchSize: 10, FlushInterval: time.Second},
		Tabs:     []tabs.Tab{{ID: 1, Tag: "a", Root: "home"}},
		MainTab:  "a",
	}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("WAYFINDER_CONFIG", path)

	out, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Database.Path != in.Database.Path || out.Journal.FlushInterval != time.Second {
		t.Errorf("round trip = %+v", out)
	}
	if len(out.Tabs) != 1 || out.Tabs[0] != in.Tabs[0] {
		t.Errorf("tabs = %+v", out.Tabs)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing root", Config{Tabs: []tabs.Tab{{ID: 1, Tag: "a"}}}},
		{"duplicate id", Config{Tabs: []tabs.Tab{{ID: 1, Tag: "a", Root: "x"}, {ID: 1, Tag: "b", Root: "y"}}}},
		{"unknown main", Config{Tabs: DefaultTabs, MainTab: "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
