package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/wayfinder/internal/analysis"
	"github.com/Mr-Dark-debug/wayfinder/internal/app"
	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

// latestSession resolves an empty session id to the most recent session.
func latestSession(store database.Store, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	sessions, err := store.ListSessions(1)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions recorded yet")
	}
	return sessions[0].SessionID, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func eventsCmd(e *env) *cobra.Command {
	var (
		session, kind, tab string
		limit              int
		asJSON             bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journaled navigation events",
		Example: `  wayfinder events
  wayfinder events --kind back
  wayfinder events --tab browse#2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := latestSession(store, session)
			if err != nil {
				return err
			}
			events, err := store.QueryEvents(database.EventFilter{
				SessionID: &id,
				Kind:      optional(kind),
				Tab:       optional(tab),
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			if len(events) == 0 {
				fmt.Println("  No events.")
				return nil
			}
			fmt.Printf("Session %s\n\n", id)
			for _, ev := range events {
				fmt.Printf("  %s  %-10s %-12s depth %-2d %s\n",
					timeutil.FormatTimestamp(ev.Timestamp), ev.Kind, deref(ev.Tab), ev.Depth, ev.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session id (default: latest)")
	cmd.Flags().StringVar(&kind, "kind", "", "only events of this kind (open, close, switch_tab, back, ...)")
	cmd.Flags().StringVar(&tab, "tab", "", "only events in this tab (tag#id)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 200, "maximum number of events")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func sessionsCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded host sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.ListSessions(limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("  No sessions recorded yet.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("SESSION", "HOST", "STARTED", "DURATION", "STATUS")
			for _, s := range sessions {
				duration := "-"
				if s.EndedAt != nil {
					duration = timeutil.FormatDuration((*s.EndedAt - s.StartedAt) / 1e6)
				}
				t.Row(s.SessionID, s.Host, timeutil.RelativeTime(s.StartedAt), duration, s.Status)
			}
			fmt.Println(t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of sessions")
	return cmd
}

func reportCmd(e *env) *cobra.Command {
	var (
		session, format string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyze a session: hotspots, depth trend, tab usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := latestSession(store, session)
			if err != nil {
				return err
			}
			a := analysis.NewAnalyzer(store)
			report, err := a.FullAnalysis(id)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "markdown", "md":
				fmt.Print(a.FormatReport(report))
				return nil
			default:
				return fmt.Errorf("unknown format %q (use markdown or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session id (default: latest)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or json")
	return cmd
}
