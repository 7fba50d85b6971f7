package remote

import (
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/linear"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// TabLookup finds a tab by tag.
type TabLookup func(tag string) (tabs.Tab, bool)

// Resolve turns m into a navigation command, instantiating its screen with
// f and its tab with lookup.
func (m CommandMessage) Resolve(lookup TabLookup, f nav.Factory) (nav.Command, error) {
	switch m.Command {
	case "back":
		return nav.Back{}, nil
	case "reselect_tab":
		return tabs.ReselectTab{}, nil
	case "back_to_root":
		return tabs.BackToRoot{}, nil
	case "back_to":
		tag := m.Tag
		if tag == "" {
			tag = m.Screen
		}
		if tag == "" {
			return nil, fmt.Errorf("back_to: missing tag")
		}
		return linear.BackTo{Tag: tag}, nil
	case "switch_tab":
		tab, err := m.tab(lookup)
		if err != nil {
			return nil, err
		}
		if tab == nil {
			return nil, fmt.Errorf("switch_tab: missing tab")
		}
		return tabs.SwitchTab{Tab: *tab}, nil
	case "clear_tab_back_stack":
		tab, err := m.tab(lookup)
		if err != nil {
			return nil, err
		}
		return tabs.ClearBackStack{Tab: tab}, nil
	case "open_in_tab":
		tab, err := m.tab(lookup)
		if err != nil {
			return nil, err
		}
		s, err := m.screen(f)
		if err != nil {
			return nil, err
		}
		return tabs.OpenInTab{Tab: tab, Screen: s, AddToBackStack: m.AddToBackStack}, nil
	case "forward", "replace":
		s, err := m.screen(f)
		if err != nil {
			return nil, err
		}
		if m.Command == "forward" {
			return linear.Forward{Screen: s, Tag: m.Tag}, nil
		}
		return linear.Replace{Screen: s, Tag: m.Tag}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", m.Command)
	}
}

func (m CommandMessage) tab(lookup TabLookup) (*tabs.Tab, error) {
	if m.Tab == "" {
		return nil, nil
	}
	t, ok := lookup(m.Tab)
	if !ok {
		return nil, fmt.Errorf("%s: unknown tab %q", m.Command, m.Tab)
	}
	return &t, nil
}

func (m CommandMessage) screen(f nav.Factory) (nav.Screen, error) {
	if m.Screen == "" {
		return nil, fmt.Errorf("%s: missing screen", m.Command)
	}
	s, err := f.Instantiate(m.Screen, nav.Args(m.Args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Command, err)
	}
	return s, nil
}
