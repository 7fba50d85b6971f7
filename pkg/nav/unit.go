package nav

import "encoding/json"

// State is the persisted navigation state of a navigator. Every unit stores
// its blob under its own key.
type State map[string]json.RawMessage

// Unit is one navigation sub-system under a Navigator.
type Unit interface {
	// Navigate applies cmd if the unit recognises it. It reports false,
	// without error, for commands that belong to another unit.
	Navigate(cmd Command) (bool, error)
	// Back handles a back request. False lets the cascade continue.
	Back() (bool, error)
	// Clear drops the unit's history.
	Clear()
	// Subscribe registers fn for the unit's events.
	Subscribe(fn func(Event)) Subscription
	// SaveState writes the unit's persistent state into s.
	SaveState(s State) error
	// RestoreState reads the unit's persistent state from s. A missing key
	// leaves the unit as it is.
	RestoreState(s State) error
}
