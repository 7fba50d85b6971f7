// Package app wires configuration, storage, the journal, telemetry and the
// control socket around the terminal host.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mr-Dark-debug/wayfinder/internal/config"
	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/internal/journal"
	"github.com/Mr-Dark-debug/wayfinder/internal/logging"
	"github.com/Mr-Dark-debug/wayfinder/internal/remote"
	"github.com/Mr-Dark-debug/wayfinder/internal/telemetry"
	"github.com/Mr-Dark-debug/wayfinder/internal/tui"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// Options adjusts a terminal session.
type Options struct {
	// Fresh discards the saved navigation state before starting.
	Fresh bool
	// NoControl skips the control socket.
	NoControl bool
}

// OpenStore opens the configured database, creating its directory.
func OpenStore(cfg config.Config) (*database.DBService, error) {
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return database.NewDBService(cfg.Database.Path)
}

// MainTab resolves the configured main tab, defaulting to the first tab.
func MainTab(cfg config.Config) tabs.Tab {
	if t, ok := cfg.Tab(cfg.MainTab); ok {
		return t
	}
	return cfg.Tabs[0]
}

// RunTUI runs the terminal host until the user quits or the back cascade
// finishes it. Logs go to the configured file only; the terminal belongs to
// the UI.
func RunTUI(ctx context.Context, cfg config.Config, opts Options) error {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer logger.Close()

	store, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.Fresh {
		if err := store.DeleteState(tui.DefaultStateName); err != nil {
			return err
		}
	}

	tp, err := telemetry.New(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	j, err := journal.Open(store, tui.HostName, journal.Config{
		BatchSize:     cfg.Journal.BatchSize,
		FlushInterval: cfg.Journal.FlushInterval,
	}, logger.Component("journal"))
	if err != nil {
		return err
	}

	model, err := tui.NewModel(tui.Options{
		Store:   store,
		Tabs:    cfg.Tabs,
		MainTab: MainTab(cfg),
		Journal: j,
		Logger:  logger.Logger,
		Tracer:  tp.Tracer(),
	})
	if err != nil {
		j.Close(database.SessionAborted)
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if !opts.NoControl && cfg.Control.Socket != "" {
		srv := remote.NewServer(remote.Config{
			ListenAddr:  cfg.Control.Socket,
			MetricsAddr: cfg.Control.MetricsAddr,
		}, tui.ControlHandler(p.Send), logger.Logger)
		if err := srv.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("control socket disabled")
		} else {
			defer srv.Stop()
		}
	}

	logger.Info().Str("session", j.SessionID()).Msg("terminal host started")
	_, runErr := p.Run()

	status := database.SessionFinished
	if runErr != nil {
		status = database.SessionAborted
	}
	if err := j.Close(status); err != nil {
		logger.Error().Err(err).Msg("closing journal")
	}
	logger.Info().Interface("journal", j.Metrics()).Msg("terminal host stopped")
	return runErr
}
