// Package tui implements the wayfinder terminal host.
//
// The host drives two navigation zones through one router: an overlay
// stack (help, about) and a tabbed zone. Keys and control socket commands
// both arrive as tea messages, so every navigation change happens on the
// update loop.
//
// Component architecture:
//
//	model.go    root model, key routing, command application
//	session.go  state persistence and restore
//	control.go  control socket bridge
//	keys.go     keybindings (bubbles/key)
//	theme.go    centralized color and style definitions
//	header.go   tab bar and status line
//	timeline.go event pane
//	detail.go   history pane
//	diffview.go navigator state diff since launch
//	helpers.go  truncation and small math
package tui
