// wayfinder is the command-line entry point: it runs the terminal host and
// inspects or drives navigation from scripts.
//
// Usage:
//
//	wayfinder [command] [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/wayfinder/internal/app"
	"github.com/Mr-Dark-debug/wayfinder/internal/config"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the configuration shared by every subcommand, loaded before any
// of them runs.
type env struct {
	cfg    config.Config
	dbPath string
}

func rootCmd() *cobra.Command {
	e := &env{}
	var opts app.Options

	root := &cobra.Command{
		Use:   "wayfinder",
		Short: "Navigation-state controller for screen stacks and tabs",
		Long: `wayfinder keeps per-tab back stacks, an overlay stack and the back
cascade between them, persists navigation state in SQLite and journals
every navigation event.

  Examples:
    wayfinder                                  open the terminal host
    wayfinder send switch_tab --tab browse     drive a running host
    wayfinder report                           analyze the latest session
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if e.dbPath != "" {
				cfg.Database.Path = e.dbPath
			}
			e.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTUI(cmd.Context(), e.cfg, opts)
		},
	}

	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "path to SQLite database (default: from config)")
	root.Flags().BoolVar(&opts.Fresh, "fresh", false, "discard saved navigation state")
	root.SilenceUsage = true

	root.AddCommand(
		tuiCmd(e),
		sendCmd(e),
		stateCmd(e),
		eventsCmd(e),
		sessionsCmd(e),
		reportCmd(e),
		statusCmd(e),
		configCmd(),
		versionCmd(),
	)
	return root
}

func tuiCmd(e *env) *cobra.Command {
	var opts app.Options
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal host",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTUI(cmd.Context(), e.cfg, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "discard saved navigation state")
	cmd.Flags().BoolVar(&opts.NoControl, "no-control", false, "do not open the control socket")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skips config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wayfinder v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
}
