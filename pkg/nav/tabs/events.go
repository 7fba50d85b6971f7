package tabs

import "fmt"

// OpenTabScreenEvent reports a screen opened in a tab.
type OpenTabScreenEvent struct {
	Tab    Tab
	Screen string
}

func (e OpenTabScreenEvent) Message() string {
	return fmt.Sprintf("open %s in tab %s", e.Screen, e.Tab)
}

// CloseTabScreenEvent reports a screen of a tab replaced by going back.
type CloseTabScreenEvent struct {
	Tab    Tab
	Screen string
}

func (e CloseTabScreenEvent) Message() string {
	return fmt.Sprintf("close %s in tab %s", e.Screen, e.Tab)
}

// SwitchTabEvent reports a new current tab.
type SwitchTabEvent struct {
	Tab Tab
}

func (e SwitchTabEvent) Message() string {
	return fmt.Sprintf("switch to tab %s", e.Tab)
}
