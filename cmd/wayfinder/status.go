package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/wayfinder/internal/app"
	"github.com/Mr-Dark-debug/wayfinder/internal/remote"
)

func statusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database and control socket status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			version, dirty, err := store.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Println("wayfinder status")
			fmt.Printf("  Database:  %s (schema v%d", store.Path(), version)
			if dirty {
				fmt.Print(", dirty")
			}
			fmt.Println(")")
			fmt.Printf("  Socket:    %s\n", e.cfg.Control.Socket)

			if e.cfg.Control.MetricsAddr == "" {
				fmt.Println("  Host:      metrics disabled")
				return nil
			}
			m, err := fetchMetrics(cmd.Context(), e.cfg.Control.MetricsAddr)
			if err != nil {
				fmt.Println("  Host:      not running")
				return nil
			}
			fmt.Println("  Host:      running")
			fmt.Printf("  Uptime:    %s\n", time.Duration(m.Uptime)*time.Second)
			fmt.Printf("  Commands:  %d applied, %d failed\n", m.CommandsApplied, m.CommandsFailed)
			fmt.Printf("  Frames:    %d (%d protocol errors)\n", m.FramesReceived, m.ProtocolErrors)
			return nil
		},
	}
}

func fetchMetrics(ctx context.Context, addr string) (*remote.Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/api/metrics", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metrics endpoint returned %s", resp.Status)
	}
	var m remote.Metrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
