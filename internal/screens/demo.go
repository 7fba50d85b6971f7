package screens

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
)

// Demo screen types.
const (
	KindHome     = "home"
	KindBrowse   = "browse"
	KindItem     = "item"
	KindSearch   = "search"
	KindSettings = "settings"
	KindAbout    = "about"
	KindHelp     = "help"
)

// Catalog is the item list shown by the browse screen.
var Catalog = []string{"astrolabe", "compass", "lantern", "map", "sextant", "telescope"}

// Home is the landing screen of the home tab.
type Home struct{ base }

func NewHome() *Home { return &Home{base{kind: KindHome}} }

func (h *Home) Title() string { return "Home" }

func (h *Home) View(width, height int) string {
	lines := []string{
		titleStyle.Render("Welcome to wayfinder"),
		"",
		textStyle.Render("Every tab keeps its own history. Switch tabs with 1-9,"),
		textStyle.Render("go back with esc and reselect a tab to return to its root."),
		"",
		dimStyle.Render("enter  open the featured item"),
		dimStyle.Render("s      search"),
	}
	return strings.Join(lines, "\n")
}

func (h *Home) Update(msg tea.KeyMsg) *Intent {
	switch msg.String() {
	case "enter":
		return &Intent{Screen: KindItem, Args: nav.Args{"id": Catalog[0]}}
	case "s":
		return &Intent{Screen: KindSearch}
	}
	return nil
}

// Browse is a cursor-driven list. Its memento is the cursor position and
// reselecting its tab scrolls back to the top.
type Browse struct {
	base
	items  []string
	cursor int
}

type browseState struct {
	Cursor int `json:"cursor"`
}

func NewBrowse(items []string) *Browse {
	return &Browse{base: base{kind: KindBrowse}, items: items}
}

func (b *Browse) Title() string { return "Browse" }

// Cursor returns the selected row.
func (b *Browse) Cursor() int { return b.cursor }

func (b *Browse) SaveState() nav.Memento {
	m, _ := json.Marshal(browseState{Cursor: b.cursor})
	return m
}

func (b *Browse) RestoreState(m nav.Memento) {
	var s browseState
	if err := json.Unmarshal(m, &s); err != nil {
		return
	}
	if s.Cursor >= 0 && s.Cursor < len(b.items) {
		b.cursor = s.Cursor
	}
}

func (b *Browse) HandleTabReselect() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor = 0
	return true
}

func (b *Browse) Update(msg tea.KeyMsg) *Intent {
	switch msg.String() {
	case "j", "down":
		if b.cursor < len(b.items)-1 {
			b.cursor++
		}
	case "k", "up":
		if b.cursor > 0 {
			b.cursor--
		}
	case "enter":
		if len(b.items) > 0 {
			return &Intent{Screen: KindItem, Args: nav.Args{"id": b.items[b.cursor]}}
		}
	}
	return nil
}

func (b *Browse) View(width, height int) string {
	lines := []string{titleStyle.Render("Catalog") + dimStyle.Render(fmt.Sprintf("  %d items", len(b.items))), ""}
	for i, item := range b.items {
		if i == b.cursor {
			lines = append(lines, selectedStyle.Width(width).Render("> "+item))
		} else {
			lines = append(lines, textStyle.Render("  "+item))
		}
	}
	return strings.Join(lines, "\n")
}

// Item shows one catalog entry.
type Item struct{ base }

func NewItem(args nav.Args) *Item { return &Item{base{kind: KindItem, args: args}} }

// ID returns the item identifier argument.
func (it *Item) ID() string { return it.args["id"] }

func (it *Item) Title() string { return "Item " + it.ID() }

func (it *Item) View(width, height int) string {
	id := it.ID()
	if id == "" {
		id = "(none)"
	}
	return strings.Join([]string{
		titleStyle.Render(id),
		"",
		textStyle.Render("A fine instrument for finding one's way."),
		"",
		dimStyle.Render("enter  open a related item"),
	}, "\n")
}

func (it *Item) Update(msg tea.KeyMsg) *Intent {
	if msg.String() == "enter" {
		return &Intent{Screen: KindItem, Args: nav.Args{"id": it.ID() + "+"}}
	}
	return nil
}

// Search collects a query. While a query is typed, back clears it instead
// of leaving the screen.
type Search struct {
	base
	query string
}

func NewSearch() *Search { return &Search{base: base{kind: KindSearch}} }

func (s *Search) Title() string { return "Search" }

// Query returns the typed text.
func (s *Search) Query() string { return s.query }

// Capturing reports that printable keys belong to the query.
func (s *Search) Capturing() bool { return true }

func (s *Search) SaveState() nav.Memento { return nav.Memento(s.query) }

func (s *Search) RestoreState(m nav.Memento) { s.query = string(m) }

func (s *Search) HandleBack() bool {
	if s.query == "" {
		return false
	}
	s.query = ""
	return true
}

func (s *Search) Update(msg tea.KeyMsg) *Intent {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		s.query += string(msg.Runes)
	case tea.KeyBackspace:
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
		}
	case tea.KeyEnter:
		if q := strings.TrimSpace(s.query); q != "" {
			return &Intent{Screen: KindItem, Args: nav.Args{"id": q}}
		}
	}
	return nil
}

func (s *Search) View(width, height int) string {
	lines := []string{titleStyle.Render("Search"), "", textStyle.Render("> " + s.query + "_"), ""}
	q := strings.ToLower(s.query)
	for _, item := range Catalog {
		if q != "" && strings.Contains(item, q) {
			lines = append(lines, dimStyle.Render("  "+item))
		}
	}
	return strings.Join(lines, "\n")
}

// Settings is a list of toggles persisted in its memento.
type Settings struct {
	base
	options []string
	enabled map[string]bool
	cursor  int
}

func NewSettings() *Settings {
	return &Settings{
		base:    base{kind: KindSettings},
		options: []string{"animations", "journal", "compact layout"},
		enabled: map[string]bool{"animations": true, "journal": true},
	}
}

func (s *Settings) Title() string { return "Settings" }

// Enabled reports whether the named option is on.
func (s *Settings) Enabled(option string) bool { return s.enabled[option] }

func (s *Settings) SaveState() nav.Memento {
	m, _ := json.Marshal(s.enabled)
	return m
}

func (s *Settings) RestoreState(m nav.Memento) {
	enabled := make(map[string]bool)
	if err := json.Unmarshal(m, &enabled); err != nil {
		return
	}
	s.enabled = enabled
}

func (s *Settings) Update(msg tea.KeyMsg) *Intent {
	switch msg.String() {
	case "j", "down":
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case " ", "enter":
		opt := s.options[s.cursor]
		s.enabled[opt] = !s.enabled[opt]
	case "a":
		return &Intent{Screen: KindAbout, Overlay: true}
	}
	return nil
}

func (s *Settings) View(width, height int) string {
	lines := []string{titleStyle.Render("Settings"), ""}
	for i, opt := range s.options {
		mark := offStyle.Render("[ ]")
		if s.enabled[opt] {
			mark = onStyle.Render("[x]")
		}
		label := opt
		if i == s.cursor {
			label = selectedStyle.Render(opt)
		}
		lines = append(lines, mark+" "+label)
	}
	lines = append(lines, "", dimStyle.Render("space toggle  a about"))
	return strings.Join(lines, "\n")
}

// About is a static overlay.
type About struct{ base }

func NewAbout() *About { return &About{base{kind: KindAbout}} }

func (a *About) Title() string { return "About" }

func (a *About) View(width, height int) string {
	return strings.Join([]string{
		titleStyle.Render("wayfinder"),
		"",
		textStyle.Render("A navigation-state controller for screen stacks and tabs."),
		"",
		dimStyle.Render("esc  close"),
	}, "\n")
}

// Help is the keybinding overlay. The host supplies the rendered bindings.
type Help struct {
	base
	Bindings string
}

func NewHelp() *Help { return &Help{base: base{kind: KindHelp}} }

func (h *Help) Title() string { return "Help" }

func (h *Help) View(width, height int) string {
	return titleStyle.Render("Keys") + "\n\n" + h.Bindings
}

var (
	_ nav.TabReselectHandler = (*Browse)(nil)
	_ nav.BackHandler        = (*Search)(nil)
	_ Capturer               = (*Search)(nil)
	_ Screen                 = (*Home)(nil)
	_ Screen                 = (*Browse)(nil)
	_ Screen                 = (*Item)(nil)
	_ Screen                 = (*Search)(nil)
	_ Screen                 = (*Settings)(nil)
	_ Screen                 = (*About)(nil)
	_ Screen                 = (*Help)(nil)
)
