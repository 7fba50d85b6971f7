package tabs

import (
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Tab is an independently tracked navigation lane. Two tabs are equal iff
// all fields are equal.
type Tab struct {
	ID   int    `json:"id" mapstructure:"id"`
	Tag  string `json:"tag" mapstructure:"tag"`
	Root string `json:"root" mapstructure:"root"`
}

// IsRoot reports whether s is the root screen of t.
func (t Tab) IsRoot(s nav.Screen) bool {
	return s != nil && s.Type() == t.Root
}

func (t Tab) String() string {
	return fmt.Sprintf("%s#%d", t.Tag, t.ID)
}
