package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/atomic"

	"github.com/Mr-Dark-debug/wayfinder/internal/remote"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// ErrControlTimeout is returned to control clients when the program does
// not pick up their commands in time.
var ErrControlTimeout = errors.New("tui: control command timed out")

// controlTimeout bounds how long a control connection waits for the
// update loop.
const controlTimeout = 5 * time.Second

// controlMsg carries control socket commands into the update loop. Whoever
// flips claimed first owns the outcome: the update loop applies the
// commands, or the handler reports a timeout and the loop drops them.
type controlMsg struct {
	msgs    []remote.CommandMessage
	reply   chan error
	claimed *atomic.Bool
}

func newControlMsg(msgs []remote.CommandMessage) controlMsg {
	return controlMsg{msgs: msgs, reply: make(chan error, 1), claimed: atomic.NewBool(false)}
}

// claim reports whether the caller won the right to settle msg.
func (msg controlMsg) claim() bool {
	return msg.claimed.CompareAndSwap(false, true)
}

// ControlHandler returns a remote.Handler that delivers commands to the
// program through send (normally (*tea.Program).Send) and waits until the
// update loop has applied them. Commands that time out are never applied
// later.
func ControlHandler(send func(tea.Msg)) remote.Handler {
	return func(msgs []remote.CommandMessage) error {
		msg := newControlMsg(msgs)
		go send(msg)
		select {
		case err := <-msg.reply:
			return err
		case <-time.After(controlTimeout):
			if msg.claim() {
				return ErrControlTimeout
			}
			return <-msg.reply
		}
	}
}

// applyControl resolves every message before applying any, so a batch with
// an unknown tab or screen changes nothing.
func (m *Model) applyControl(msgs []remote.CommandMessage) error {
	cmds := make([]nav.Command, 0, len(msgs))
	for _, msg := range msgs {
		cmd, err := msg.Resolve(m.lookupTab, m.registry)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}
	return m.apply(cmds...)
}
