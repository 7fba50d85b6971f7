package journal

import (
	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// Back outcomes: which stage of the back cascade consumed a back request.
const (
	OutcomeScreen = "screen"
	OutcomeLinear = "linear"
	OutcomeTabs   = "tabs"
	OutcomeFinish = "finish"
)

// FromEvent converts a navigation event into a journal record. depth is the
// total back-stack depth after the event.
func FromEvent(ev nav.Event, depth int) *database.NavEvent {
	rec := &database.NavEvent{Depth: depth, Message: ev.Message()}
	switch e := ev.(type) {
	case nav.LaunchHostEvent:
		rec.Kind = database.KindLaunch
	case nav.FinishHostEvent:
		rec.Kind = database.KindFinish
	case nav.OpenScreenEvent:
		rec.Kind = database.KindOpen
		rec.Screen = &e.Tag
	case nav.CloseScreenEvent:
		rec.Kind = database.KindClose
		rec.Screen = &e.Tag
	case tabs.OpenTabScreenEvent:
		rec.Kind = database.KindOpen
		rec.Tab = tabName(e.Tab)
		rec.Screen = &e.Screen
	case tabs.CloseTabScreenEvent:
		rec.Kind = database.KindClose
		rec.Tab = tabName(e.Tab)
		rec.Screen = &e.Screen
	case tabs.SwitchTabEvent:
		rec.Kind = database.KindSwitchTab
		rec.Tab = tabName(e.Tab)
	default:
		rec.Kind = database.KindCommand
	}
	return rec
}

// FromCommand records a command the host applied. A non-nil err records it
// as an error.
func FromCommand(cmd nav.Command, err error, depth int) *database.NavEvent {
	name := cmd.CommandName()
	rec := &database.NavEvent{Kind: database.KindCommand, Command: &name, Depth: depth, Message: name}
	if err != nil {
		rec.Kind = database.KindError
		rec.Message = err.Error()
	}
	return rec
}

// FromBack records a back request and the stage that consumed it, as
// computed by BackOutcome.
func FromBack(outcome string, depth int) *database.NavEvent {
	name := nav.Back{}.CommandName()
	return &database.NavEvent{
		Kind:    database.KindBack,
		Command: &name,
		Depth:   depth,
		Message: "back: " + outcome,
		Outcome: &outcome,
	}
}

// BackOutcome infers which stage of the cascade handled a back request from
// the events it produced. No events means the screen consumed it.
func BackOutcome(events []nav.Event) string {
	for _, ev := range events {
		switch ev.(type) {
		case nav.FinishHostEvent:
			return OutcomeFinish
		case nav.CloseScreenEvent:
			return OutcomeLinear
		case tabs.CloseTabScreenEvent:
			return OutcomeTabs
		}
	}
	return OutcomeScreen
}

func tabName(t tabs.Tab) *string {
	s := t.String()
	return &s
}
