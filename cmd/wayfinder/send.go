package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/wayfinder/internal/remote"
)

func sendCmd(e *env) *cobra.Command {
	var (
		msg     remote.CommandMessage
		socket  string
		file    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [command]",
		Short: "Send navigation commands to a running terminal host",
		Long: `Send navigation commands over the control socket.

  Commands: back, open_in_tab, switch_tab, reselect_tab,
  clear_tab_back_stack, back_to_root, forward, replace, back_to`,
		Example: `  wayfinder send switch_tab --tab browse
  wayfinder send open_in_tab --screen item --arg id=map --record
  wayfinder send back
  wayfinder send --file commands.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msgs []remote.CommandMessage
			switch {
			case file != "":
				batch, err := readBatch(file)
				if err != nil {
					return err
				}
				msgs = batch
			case len(args) == 1:
				msg.Command = args[0]
				msgs = []remote.CommandMessage{msg}
			default:
				return fmt.Errorf("name a command or pass --file")
			}

			if socket == "" {
				socket = e.cfg.Control.Socket
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := remote.Send(ctx, socket, msgs...); err != nil {
				return err
			}
			fmt.Printf("  ✓ %d command(s) applied\n", len(msgs))
			return nil
		},
	}
	cmd.Flags().StringVar(&msg.Tab, "tab", "", "tab tag")
	cmd.Flags().StringVar(&msg.Screen, "screen", "", "screen type")
	cmd.Flags().StringVar(&msg.Tag, "tag", "", "stack tag (forward, replace, back_to)")
	cmd.Flags().StringToStringVar(&msg.Args, "arg", nil, "screen argument key=value (repeatable)")
	cmd.Flags().BoolVar(&msg.AddToBackStack, "record", false, "record the current screen in the back stack")
	cmd.Flags().StringVar(&socket, "socket", "", "control socket (default: from config)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of commands, - for stdin")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}

func readBatch(path string) ([]remote.CommandMessage, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var msgs []remote.CommandMessage
	if err := json.NewDecoder(r).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return msgs, nil
}
