package tabs

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEmptyStack means a tab has no entries to reset.
	ErrEmptyStack = errors.New("tabs: empty back stack")

	// ErrScreenNotFound means no entry of a tab matches a screen type.
	ErrScreenNotFound = errors.New("tabs: screen not found in back stack")
)

// BackStack is one ordered history shared by every tab. Entries of different
// tabs interleave; operations taking a tab only look at that tab's entries
// and leave the others where they are.
//
// The zero value is an empty stack.
type BackStack struct {
	// entries are stored oldest first; the top is the last element.
	entries []Entry
}

// NewBackStack returns a stack holding entries, given topmost first.
func NewBackStack(entries ...Entry) *BackStack {
	b := &BackStack{entries: make([]Entry, 0, len(entries))}
	for i := len(entries) - 1; i >= 0; i-- {
		b.entries = append(b.entries, entries[i])
	}
	return b
}

// Push puts e on top.
func (b *BackStack) Push(e Entry) {
	b.entries = append(b.entries, e)
}

// Pop removes and returns the most recently pushed entry of tab.
func (b *BackStack) Pop(tab Tab) (Entry, bool) {
	i := b.top(tab)
	if i < 0 {
		return Entry{}, false
	}
	e := b.entries[i]
	b.removeAt(i)
	return e, true
}

// PopTop removes and returns the top entry, whatever its tab.
func (b *BackStack) PopTop() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	e := b.entries[len(b.entries)-1]
	b.entries = b.entries[:len(b.entries)-1]
	return e, true
}

// Peek returns the entry Pop(tab) would remove.
func (b *BackStack) Peek(tab Tab) (Entry, bool) {
	i := b.top(tab)
	if i < 0 {
		return Entry{}, false
	}
	return b.entries[i], true
}

// PeekTop returns the entry PopTop would remove.
func (b *BackStack) PeekTop() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Oldest returns the first entry ever pushed for tab that is still stacked.
func (b *BackStack) Oldest(tab Tab) (Entry, bool) {
	for _, e := range b.entries {
		if e.Tab == tab {
			return e, true
		}
	}
	return Entry{}, false
}

// Clear removes every entry of tab.
func (b *BackStack) Clear(tab Tab) {
	b.filter(func(i int, e Entry) bool { return e.Tab != tab })
}

// ClearAll removes everything.
func (b *BackStack) ClearAll() {
	b.entries = b.entries[:0]
}

// ResetToRoot keeps only the oldest entry of tab.
func (b *BackStack) ResetToRoot(tab Tab) error {
	oldest := -1
	for i, e := range b.entries {
		if e.Tab == tab {
			oldest = i
			break
		}
	}
	if oldest < 0 {
		return fmt.Errorf("reset %s to root: %w", tab, ErrEmptyStack)
	}
	b.filter(func(i int, e Entry) bool { return e.Tab != tab || i == oldest })
	return nil
}

// ResetTo removes the entries of tab pushed after its most recent entry for
// screen. It fails without touching the stack when tab has no entries or
// none of them is screen.
func (b *BackStack) ResetTo(tab Tab, screen string) error {
	if b.Empty(tab) {
		return fmt.Errorf("reset %s to %s: %w", tab, screen, ErrEmptyStack)
	}
	match := -1
	for i := len(b.entries) - 1; i >= 0; i-- {
		if e := b.entries[i]; e.Tab == tab && e.Screen == screen {
			match = i
			break
		}
	}
	if match < 0 {
		return fmt.Errorf("reset %s to %s: %w", tab, screen, ErrScreenNotFound)
	}
	b.filter(func(i int, e Entry) bool { return e.Tab != tab || i <= match })
	return nil
}

// Size returns the number of entries of tab.
func (b *BackStack) Size(tab Tab) int {
	n := 0
	for _, e := range b.entries {
		if e.Tab == tab {
			n++
		}
	}
	return n
}

// Len returns the number of entries of all tabs.
func (b *BackStack) Len() int {
	return len(b.entries)
}

// Empty reports whether tab has no entries.
func (b *BackStack) Empty(tab Tab) bool {
	return b.top(tab) < 0
}

// IsEmpty reports whether the stack has no entries at all.
func (b *BackStack) IsEmpty() bool {
	return len(b.entries) == 0
}

// Entries returns a copy of the stack, topmost first.
func (b *BackStack) Entries() []Entry {
	out := make([]Entry, 0, len(b.entries))
	for i := len(b.entries) - 1; i >= 0; i-- {
		out = append(out, b.entries[i])
	}
	return out
}

// TabEntries returns a copy of tab's entries, topmost first.
func (b *BackStack) TabEntries(tab Tab) []Entry {
	var out []Entry
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Tab == tab {
			out = append(out, b.entries[i])
		}
	}
	return out
}

// MarshalJSON writes the entries topmost first.
func (b *BackStack) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Entries())
}

// UnmarshalJSON replaces the stack with entries listed topmost first.
func (b *BackStack) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decoding back stack: %w", err)
	}
	*b = *NewBackStack(entries...)
	return nil
}

func (b *BackStack) top(tab Tab) int {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Tab == tab {
			return i
		}
	}
	return -1
}

func (b *BackStack) removeAt(i int) {
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
}

// filter keeps the entries for which keep returns true, preserving order.
func (b *BackStack) filter(keep func(i int, e Entry) bool) {
	kept := b.entries[:0]
	for i, e := range b.entries {
		if keep(i, e) {
			kept = append(kept, e)
		}
	}
	b.entries = kept
}
