// Package config loads wayfinder settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Control   ControlConfig   `mapstructure:"control"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Tabs      []tabs.Tab      `mapstructure:"tabs"`
	MainTab   string          `mapstructure:"main_tab"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects the log level and an optional JSON log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ControlConfig holds the control socket and metrics listener addresses.
type ControlConfig struct {
	Socket      string `mapstructure:"socket"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// JournalConfig tunes the event journal batching.
type JournalConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// DefaultTabs is the tab layout used when the config names none.
var DefaultTabs = []tabs.Tab{
	{ID: 1, Tag: "home", Root: "home"},
	{ID: 2, Tag: "browse", Root: "browse"},
	{ID: 3, Tag: "settings", Root: "settings"},
}

// Path returns the config file location: $WAYFINDER_CONFIG or
// ~/.config/wayfinder/config.toml.
func Path() string {
	if p := os.Getenv("WAYFINDER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "wayfinder", "config.toml")
}

// DataDir returns the directory holding the database and socket.
func DataDir() string {
	return filepath.Join(homeDir(), ".wayfinder")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func setDefaults(v *viper.Viper) {
	dir := DataDir()
	v.SetDefault("database.path", filepath.Join(dir, "wayfinder.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dir, "wayfinder.log"))
	v.SetDefault("control.socket", filepath.Join(dir, "wayfinder.sock"))
	v.SetDefault("control.metrics_addr", "127.0.0.1:9878")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "wayfinder")
	v.SetDefault("journal.batch_size", 50)
	v.SetDefault("journal.flush_interval", "500ms")
	v.SetDefault("main_tab", "home")
}

// Load reads configuration from file and env. Env var overrides use prefix
// WAYFINDER_. A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if p := os.Getenv("WAYFINDER_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "wayfinder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WAYFINDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Tabs) == 0 {
		c.Tabs = append([]tabs.Tab(nil), DefaultTabs...)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the tab layout.
func (c Config) Validate() error {
	seen := make(map[int]bool, len(c.Tabs))
	for _, t := range c.Tabs {
		if t.Tag == "" || t.Root == "" {
			return fmt.Errorf("config: tab %d needs a tag and a root screen", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("config: duplicate tab id %d", t.ID)
		}
		seen[t.ID] = true
	}
	if c.MainTab != "" {
		if _, ok := c.Tab(c.MainTab); !ok {
			return fmt.Errorf("config: main_tab %q is not a configured tab", c.MainTab)
		}
	}
	if c.Journal.BatchSize < 0 {
		return fmt.Errorf("config: journal.batch_size must not be negative")
	}
	return nil
}

// Tab finds a configured tab by tag.
func (c Config) Tab(tag string) (tabs.Tab, bool) {
	for _, t := range c.Tabs {
		if t.Tag == tag {
			return t, true
		}
	}
	return tabs.Tab{}, false
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("control.socket", cfg.Control.Socket)
	v.Set("control.metrics_addr", cfg.Control.MetricsAddr)
	v.Set("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.Set("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.Set("journal.batch_size", cfg.Journal.BatchSize)
	v.Set("journal.flush_interval", cfg.Journal.FlushInterval.String())
	v.Set("main_tab", cfg.MainTab)

	tabList := make([]map[string]any, 0, len(cfg.Tabs))
	for _, t := range cfg.Tabs {
		tabList = append(tabList, map[string]any{"id": t.ID, "tag": t.Tag, "root": t.Root})
	}
	v.Set("tabs", tabList)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
