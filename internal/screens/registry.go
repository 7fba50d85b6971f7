package screens

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// ErrUnknownScreen is returned by Instantiate for unregistered types.
var ErrUnknownScreen = errors.New("unknown screen")

// Constructor builds a screen from its arguments.
type Constructor func(args nav.Args) Screen

// Registry maps screen types to constructors. It implements nav.Factory.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register binds kind to c, replacing any previous binding.
func (r *Registry) Register(kind string, c Constructor) {
	r.ctors[kind] = c
}

// Kinds returns the registered screen types in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Instantiate creates a screen of the given type.
func (r *Registry) Instantiate(kind string, args nav.Args) (nav.Screen, error) {
	c, ok := r.ctors[kind]
	if !ok {
		if s := r.suggest(kind); s != "" {
			return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownScreen, kind, s)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownScreen, kind)
	}
	return c(args.Clone()), nil
}

// suggest returns the closest registered type within a third of the
// query's length (at least two edits), or "".
func (r *Registry) suggest(kind string) string {
	limit := len(kind) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, k := range r.Kinds() {
		if d := levenshtein.ComputeDistance(kind, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// Default returns a registry with every demo screen.
func Default() *Registry {
	r := NewRegistry()
	r.Register(KindHome, func(nav.Args) Screen { return NewHome() })
	r.Register(KindBrowse, func(nav.Args) Screen { return NewBrowse(Catalog) })
	r.Register(KindItem, func(args nav.Args) Screen { return NewItem(args) })
	r.Register(KindSearch, func(nav.Args) Screen { return NewSearch() })
	r.Register(KindSettings, func(nav.Args) Screen { return NewSettings() })
	r.Register(KindAbout, func(nav.Args) Screen { return NewAbout() })
	r.Register(KindHelp, func(nav.Args) Screen { return NewHelp() })
	return r
}

var _ nav.Factory = (*Registry)(nil)
