// wayfinder-tui opens the terminal host directly, without the full CLI.
//
// Usage:
//
//	wayfinder-tui [flags]
//
// Flags:
//
//	--db          Path to SQLite database file (default: from config)
//	--fresh       Discard saved navigation state
//	--no-control  Do not open the control socket
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mr-Dark-debug/wayfinder/internal/app"
	"github.com/Mr-Dark-debug/wayfinder/internal/config"
)

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database file")
	var opts app.Options
	flag.BoolVar(&opts.Fresh, "fresh", false, "Discard saved navigation state")
	flag.BoolVar(&opts.NoControl, "no-control", false, "Do not open the control socket")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunTUI(ctx, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
