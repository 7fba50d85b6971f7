package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/wayfinder/internal/app"
	"github.com/Mr-Dark-debug/wayfinder/internal/tui"
	"github.com/Mr-Dark-debug/wayfinder/pkg/jsonutil"
	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

func stateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear saved navigation state",
	}
	cmd.AddCommand(stateListCmd(e), stateShowCmd(e), stateClearCmd(e), stateDiffCmd(e))
	return cmd
}

func stateName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return tui.DefaultStateName
}

func stateListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved states",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			states, err := store.ListStates()
			if err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Println("  No saved state.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "UPDATED", "STATE", "SNAPSHOT")
			for _, st := range states {
				t.Row(st.Name, timeutil.RelativeTime(st.UpdatedAt),
					fmt.Sprintf("%d B", len(st.State)), fmt.Sprintf("%d B", len(st.Snapshot)))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
}

func stateShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a saved state (default: the terminal host's)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := store.LoadState(stateName(args))
			if err != nil {
				return err
			}
			fmt.Printf("# %s (saved %s)\n\n", st.Name, timeutil.FormatTimestampFull(st.UpdatedAt))
			fmt.Println("## State")
			fmt.Println(jsonutil.PrettyJSON(string(st.State)))
			if len(st.Snapshot) > 0 {
				fmt.Println("\n## Snapshot")
				fmt.Println(jsonutil.PrettyJSON(string(st.Snapshot)))
			}
			return nil
		},
	}
}

func stateClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [name]",
		Short: "Delete a saved state so the next run starts fresh",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			name := stateName(args)
			if err := store.DeleteState(name); err != nil {
				return err
			}
			fmt.Printf("  ✓ cleared %s\n", name)
			return nil
		},
	}
}

func stateDiffCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two saved states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			a, err := store.LoadState(args[0])
			if err != nil {
				return err
			}
			b, err := store.LoadState(args[1])
			if err != nil {
				return err
			}
			diffs, err := jsonutil.ComputeJSONDiff(string(a.State), string(b.State))
			if err != nil {
				return err
			}
			if len(diffs) == 0 {
				fmt.Println("  States are identical.")
				return nil
			}
			for _, d := range diffs {
				switch d.Type {
				case jsonutil.DiffAdd:
					fmt.Printf("+ %s: %s\n", d.Path, d.NewValue)
				case jsonutil.DiffDelete:
					fmt.Printf("- %s: %s\n", d.Path, d.OldValue)
				default:
					fmt.Printf("~ %s\n  - %s\n  + %s\n", d.Path, d.OldValue, d.NewValue)
				}
			}
			return nil
		},
	}
}
