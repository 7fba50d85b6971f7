package tui

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// Snapshot is what the host itself remembers between runs, next to the
// navigator state: the screen that was showing and the overlay tags.
type Snapshot struct {
	Current *tabs.Entry `json:"current,omitempty"`
	Overlay []string    `json:"overlay,omitempty"`
}

// loadSaved reads the persisted navigator state and host snapshot. A
// missing row is a fresh start, not an error.
func (m *Model) loadSaved() (nav.State, *Snapshot, error) {
	if m.store == nil {
		return nil, nil, nil
	}
	saved, err := m.store.LoadState(m.stateName)
	if errors.Is(err, database.ErrStateNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	state := make(nav.State)
	if err := json.Unmarshal(saved.State, &state); err != nil {
		return nil, nil, fmt.Errorf("decoding navigator state: %w", err)
	}
	var snap *Snapshot
	if len(saved.Snapshot) > 0 {
		snap = &Snapshot{}
		if err := json.Unmarshal(saved.Snapshot, snap); err != nil {
			return nil, nil, fmt.Errorf("decoding host snapshot: %w", err)
		}
	}
	return state, snap, nil
}

// persist writes the navigator state and the host snapshot.
func (m *Model) persist() error {
	if m.store == nil {
		return nil
	}
	state, err := m.navigator.SaveState()
	if err != nil {
		return err
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding navigator state: %w", err)
	}
	snapJSON, err := json.Marshal(m.snapshot())
	if err != nil {
		return fmt.Errorf("encoding host snapshot: %w", err)
	}
	return m.store.SaveState(&database.SavedState{
		Name:     m.stateName,
		State:    stateJSON,
		Snapshot: snapJSON,
	})
}

func (m *Model) snapshot() Snapshot {
	snap := Snapshot{Overlay: m.overlayStack.Snapshot()}
	tab, ok := m.tabbed.CurrentTab()
	if s := m.tabStack.Current(); ok && s != nil {
		e := tabs.NewEntry(tab, s)
		snap.Current = &e
	}
	return snap
}

// showInitial puts the first screen up: the one from the snapshot when it
// still belongs to a configured tab, else the main tab's root.
func (m *Model) showInitial(snap *Snapshot) error {
	if snap != nil && snap.Current != nil && m.knownTab(snap.Current.Tab) {
		s, err := snap.Current.Recreate(m.registry)
		if err == nil {
			tab := snap.Current.Tab
			return m.apply(tabs.OpenInTab{Tab: &tab, Screen: s})
		}
		m.logger.Warn().Err(err).Msg("cannot recreate last screen")
	}
	return m.apply(tabs.SwitchTab{Tab: m.mainTab})
}

func (m *Model) knownTab(t tabs.Tab) bool {
	for _, tab := range m.tabList {
		if tab == t {
			return true
		}
	}
	return false
}

func (m *Model) lookupTab(tag string) (tabs.Tab, bool) {
	for _, tab := range m.tabList {
		if tab.Tag == tag {
			return tab, true
		}
	}
	return tabs.Tab{}, false
}
