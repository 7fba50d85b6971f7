package nav

import "fmt"

// Navigator dispatches commands to a fixed, ordered list of units and
// cascades back requests through them, finishing the host when none
// consumes one.
type Navigator struct {
	host   Host
	units  []Unit
	events Emitter

	pendingLaunch bool
}

// NewNavigator creates a navigator over units, in priority order. When saved
// is nil the navigator is fresh and Start emits a LaunchHostEvent; otherwise
// every unit restores from saved and no launch event is emitted.
func NewNavigator(host Host, saved State, units ...Unit) (*Navigator, error) {
	n := &Navigator{
		host:  host,
		units: units,
	}
	if saved != nil {
		if err := n.RestoreState(saved); err != nil {
			return nil, fmt.Errorf("restoring navigator state: %w", err)
		}
	} else {
		n.pendingLaunch = true
	}
	return n, nil
}

// Start emits the launch event of a fresh navigator. Later calls do nothing.
func (n *Navigator) Start() {
	if !n.pendingLaunch {
		return
	}
	n.pendingLaunch = false
	n.events.Emit(LaunchHostEvent{Host: n.host.Name()})
}

// Units returns the units in priority order.
func (n *Navigator) Units() []Unit {
	return n.units
}

// Navigate routes cmd. Back goes through the back cascade; anything else is
// applied by the first unit that recognises it.
func (n *Navigator) Navigate(cmd Command) error {
	if _, ok := cmd.(Back); ok {
		return n.Back()
	}
	for _, u := range n.units {
		handled, err := u.Navigate(cmd)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return &UnroutableError{Command: cmd}
}

// Back offers a back request to every unit in order. If none consumes it the
// host is finished.
func (n *Navigator) Back() error {
	for _, u := range n.units {
		handled, err := u.Back()
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	n.host.Finish()
	n.events.Emit(FinishHostEvent{Host: n.host.Name()})
	return nil
}

// Clear drops the history of every unit.
func (n *Navigator) Clear() {
	for _, u := range n.units {
		u.Clear()
	}
}

// Subscribe registers fn on every unit and on the navigator's own lifecycle
// events. Events reach fn in the order they are produced.
func (n *Navigator) Subscribe(fn func(Event)) Subscription {
	subs := make(subscriptions, 0, len(n.units)+1)
	for _, u := range n.units {
		subs = append(subs, u.Subscribe(fn))
	}
	subs = append(subs, n.events.Subscribe(fn))
	return subs
}

// SaveState collects the persistent state of every unit.
func (n *Navigator) SaveState() (State, error) {
	s := make(State)
	for _, u := range n.units {
		if err := u.SaveState(s); err != nil {
			return nil, fmt.Errorf("saving %T state: %w", u, err)
		}
	}
	return s, nil
}

// RestoreState hands s to every unit.
func (n *Navigator) RestoreState(s State) error {
	for _, u := range n.units {
		if err := u.RestoreState(s); err != nil {
			return fmt.Errorf("restoring %T state: %w", u, err)
		}
	}
	return nil
}

// Find returns the first unit of n with concrete type T.
func Find[T Unit](n *Navigator) (T, bool) {
	for _, u := range n.units {
		if t, ok := u.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
