package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the global keybinding set. Screen-specific keys reach the
// focused screen untouched.
type keyMap struct {
	Back   key.Binding
	Tabs   key.Binding
	Root   key.Binding
	Clear  key.Binding
	Help   key.Binding
	Events key.Binding
	Diff   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tabs: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "tab"),
		),
		Root: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "tab root"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Events: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "events"),
		),
		Diff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "state diff"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Tabs, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Tabs, k.Root, k.Clear},
		{k.Help, k.Events, k.Diff, k.Quit},
	}
}
