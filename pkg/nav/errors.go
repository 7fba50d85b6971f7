package nav

import (
	"errors"
	"fmt"
)

var (
	// ErrUnroutable means no unit recognised a command. It is a programming
	// error in the navigation graph, not a runtime condition.
	ErrUnroutable = errors.New("nav: unroutable command")

	// ErrNoCurrentTab means an operation needing an established tab ran
	// before any tab was shown.
	ErrNoCurrentTab = errors.New("nav: no current tab")

	// ErrNoCurrentScreen means an operation needing a displayed screen ran
	// before any screen was shown.
	ErrNoCurrentScreen = errors.New("nav: no current screen")

	// ErrTagNotFound means a screen tag is not reachable in a stack.
	ErrTagNotFound = errors.New("nav: tag not found")
)

// UnroutableError carries the command nobody recognised.
type UnroutableError struct {
	Command Command
}

func (e *UnroutableError) Error() string {
	return fmt.Sprintf("nav: could not process command %s (%T)", e.Command.CommandName(), e.Command)
}

func (e *UnroutableError) Unwrap() error {
	return ErrUnroutable
}

// IsUnroutable reports whether err is an unroutable-command error.
func IsUnroutable(err error) bool {
	return errors.Is(err, ErrUnroutable)
}
