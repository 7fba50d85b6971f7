package tabs

import (
	"encoding/json"
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Entry is a screen remembered in a BackStack, tagged with the tab it was
// shown in.
type Entry struct {
	Tab    Tab
	Screen string
	Args   nav.Args
	State  nav.Memento
}

// NewEntry snapshots s as it is shown in tab.
func NewEntry(tab Tab, s nav.Screen) Entry {
	return Entry{
		Tab:    tab,
		Screen: s.Type(),
		Args:   s.Args().Clone(),
		State:  s.SaveState(),
	}
}

// Recreate instantiates the remembered screen and restores its state.
func (e Entry) Recreate(f nav.Factory) (nav.Screen, error) {
	s, err := f.Instantiate(e.Screen, e.Args.Clone())
	if err != nil {
		return nil, fmt.Errorf("recreating %s for tab %s: %w", e.Screen, e.Tab, err)
	}
	if e.State != nil {
		s.RestoreState(e.State)
	}
	return s, nil
}

// entryJSON is the persisted layout of an Entry.
type entryJSON struct {
	TabID   int         `json:"tab_id"`
	TabTag  string      `json:"tab_tag"`
	TabRoot string      `json:"tab_root"`
	Screen  string      `json:"screen"`
	Args    nav.Args    `json:"args,omitempty"`
	State   nav.Memento `json:"state,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		TabID:   e.Tab.ID,
		TabTag:  e.Tab.Tag,
		TabRoot: e.Tab.Root,
		Screen:  e.Screen,
		Args:    e.Args,
		State:   e.State,
	})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var w entryJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Entry{
		Tab:    Tab{ID: w.TabID, Tag: w.TabTag, Root: w.TabRoot},
		Screen: w.Screen,
		Args:   w.Args,
		State:  w.State,
	}
	return nil
}
