package nav

import "fmt"

// Command is a navigation request. Units recognise commands by concrete type.
type Command interface {
	CommandName() string
}

// Event is a navigation fact that already happened.
type Event interface {
	// Message is a human-readable description for logs.
	Message() string
}

// Back is the universal back request. The Navigator intercepts it before
// any unit sees it.
type Back struct{}

func (Back) CommandName() string { return "back" }

// OpenScreenEvent reports that a linear zone opened a screen.
type OpenScreenEvent struct {
	Tag string
}

func (e OpenScreenEvent) Message() string {
	return fmt.Sprintf("open screen %s", e.Tag)
}

// CloseScreenEvent reports that a linear zone closed a screen.
type CloseScreenEvent struct {
	Tag string
}

func (e CloseScreenEvent) Message() string {
	return fmt.Sprintf("close screen %s", e.Tag)
}

// LaunchHostEvent is emitted once when a navigator starts without saved state.
type LaunchHostEvent struct {
	Host string
}

func (e LaunchHostEvent) Message() string {
	return fmt.Sprintf("launch %s", e.Host)
}

// FinishHostEvent is emitted when a back request fell through every unit
// and the host was finished.
type FinishHostEvent struct {
	Host string
}

func (e FinishHostEvent) Message() string {
	return fmt.Sprintf("finish %s", e.Host)
}
