package tui

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/internal/journal"
	"github.com/Mr-Dark-debug/wayfinder/internal/screens"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/host"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/linear"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

// HostName identifies the terminal host in launch and finish events.
const HostName = "tui"

// DefaultStateName is the nav_states row the terminal host persists to.
const DefaultStateName = "tui"

// maxEvents bounds the event pane history.
const maxEvents = 200

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Options configures a Model.
type Options struct {
	// Store persists navigation state between runs. Nil disables it.
	Store database.Store
	// Registry creates screens. Nil means screens.Default().
	Registry *screens.Registry
	Tabs     []tabs.Tab
	MainTab  tabs.Tab
	// Journal records navigation events. Nil disables journaling.
	Journal   *journal.Writer
	Logger    zerolog.Logger
	Tracer    trace.Tracer
	StateName string
}

// Model is the root BubbleTea model of the terminal host. It owns two
// navigation zones: an overlay stack drawn above everything and a tabbed
// zone. Back requests go to the overlay first, then the tabs, then exit.
type Model struct {
	store     database.Store
	registry  *screens.Registry
	tabList   []tabs.Tab
	mainTab   tabs.Tab
	journal   *journal.Writer
	logger    zerolog.Logger
	stateName string

	// Navigation
	router       *nav.Router
	navigator    *nav.Navigator
	tabbed       *tabs.Navigation
	overlay      *linear.Navigation
	tabStack     *host.Stack
	overlayStack *host.Stack

	// Back outcome capture
	capturing bool
	captured  []nav.Event

	// Panes
	events      []eventLine
	launchState string
	showEvents  bool
	showDiff    bool

	// UI state
	keys           keyMap
	help           help.Model
	width          int
	height         int
	lastTransition nav.Transition
	finished       bool

	// Status
	statusMsg string
	err       error
}

// NewModel builds the navigation zones, restores the previous session if
// the store holds one and shows the first screen.
func NewModel(opts Options) (*Model, error) {
	if len(opts.Tabs) == 0 {
		return nil, errors.New("tui: no tabs configured")
	}
	if opts.Registry == nil {
		opts.Registry = screens.Default()
	}
	if opts.StateName == "" {
		opts.StateName = DefaultStateName
	}

	m := &Model{
		store:        opts.Store,
		registry:     opts.Registry,
		tabList:      opts.Tabs,
		mainTab:      opts.MainTab,
		journal:      opts.Journal,
		logger:       opts.Logger.With().Str("component", "tui").Logger(),
		stateName:    opts.StateName,
		tabStack:     host.NewStack(),
		overlayStack: host.NewStack(),
		keys:         defaultKeyMap(),
		help:         newHelp(),
		showEvents:   true,
	}

	m.tabStack.OnChange(m.onShow)
	m.overlayStack.OnChange(m.onShow)
	m.tabbed = tabs.New(m.tabStack, m.registry, tabs.WithMainTab(opts.MainTab))
	m.overlay = linear.New(m.overlayStack)

	routerOpts := []nav.RouterOption{nav.WithLogger(m.logger)}
	if opts.Tracer != nil {
		routerOpts = append(routerOpts, nav.WithTracer(opts.Tracer))
	}
	m.router = nav.NewRouter(routerOpts...)
	m.router.Subscribe(m.onEvent)

	saved, snap, err := m.loadSaved()
	if err != nil {
		m.logger.Warn().Err(err).Msg("ignoring saved navigation state")
		saved, snap = nil, nil
	}

	navigator, err := nav.NewNavigator(m, saved, m.overlay, m.tabbed)
	if err != nil {
		m.logger.Warn().Err(err).Msg("saved navigation state is unusable, starting fresh")
		m.tabbed.Clear()
		snap = nil
		if navigator, err = nav.NewNavigator(m, nil, m.overlay, m.tabbed); err != nil {
			return nil, err
		}
	}
	m.navigator = navigator
	m.router.SetNavigator(navigator)
	m.launchState = m.stateJSON()

	if err := m.showInitial(snap); err != nil {
		return nil, err
	}
	m.statusMsg = fmt.Sprintf("%d tabs", len(m.tabList))
	return m, nil
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = hintKeyStyle
	h.Styles.ShortDesc = hintDescStyle
	h.Styles.ShortSeparator = hintSepStyle
	h.Styles.FullKey = hintKeyStyle
	h.Styles.FullDesc = hintDescStyle
	h.Styles.FullSeparator = hintSepStyle
	return h
}

// Name implements nav.Host.
func (m *Model) Name() string { return HostName }

// Finish implements nav.Host. The program quits after the current update.
func (m *Model) Finish() { m.finished = true }

// Finished reports whether the back cascade ran out of history.
func (m *Model) Finished() bool { return m.finished }

// Router returns the router driving both zones.
func (m *Model) Router() *nav.Router { return m.router }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd {
	return nil
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case controlMsg:
		if !msg.claim() {
			m.logger.Warn().Int("commands", len(msg.msgs)).Msg("dropping timed out control commands")
			return m, nil
		}
		err := m.applyControl(msg.msgs)
		m.setErr(err)
		msg.reply <- err
		return m, m.afterNavigate()
	}

	return m, nil
}

// handleKey routes keyboard input. Global bindings win unless the focused
// screen captures text input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	screen := m.activeScreen()
	capturing := false
	if c, ok := screen.(screens.Capturer); ok && msg.Type == tea.KeyRunes {
		capturing = c.Capturing()
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, m.quit()

	case key.Matches(msg, m.keys.Back):
		m.setErr(m.apply(nav.Back{}))
		return m, m.afterNavigate()

	case capturing:
		m.setErr(m.forward(screen, msg))
		return m, m.afterNavigate()

	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Tabs):
		m.setErr(m.selectTab(int(msg.String()[0] - '1')))
		return m, nil

	case key.Matches(msg, m.keys.Root):
		m.setErr(m.apply(tabs.BackToRoot{}))
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		tab, ok := m.tabbed.CurrentTab()
		if ok {
			m.setErr(m.apply(tabs.ClearBackStack{Tab: &tab}))
			m.statusMsg = fmt.Sprintf("cleared history of %s", tab.Tag)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.setErr(m.openScreen(&screens.Intent{Screen: screens.KindHelp, Overlay: true}))
		return m, nil

	case key.Matches(msg, m.keys.Events):
		m.showEvents = !m.showEvents
		return m, nil

	case key.Matches(msg, m.keys.Diff):
		m.showDiff = !m.showDiff
		return m, nil
	}

	m.setErr(m.forward(screen, msg))
	return m, m.afterNavigate()
}

// forward hands msg to the focused screen and follows its intent.
func (m *Model) forward(screen screens.Screen, msg tea.KeyMsg) error {
	if screen == nil {
		return nil
	}
	if intent := screen.Update(msg); intent != nil {
		return m.openScreen(intent)
	}
	return nil
}

// selectTab switches to the i-th tab, or reselects it when already current.
func (m *Model) selectTab(i int) error {
	if i < 0 || i >= len(m.tabList) {
		return nil
	}
	tab := m.tabList[i]
	if cur, ok := m.tabbed.CurrentTab(); ok && cur == tab {
		return m.apply(tabs.ReselectTab{})
	}
	return m.apply(tabs.SwitchTab{Tab: tab})
}

// openScreen instantiates the screen an intent names and opens it in the
// overlay when requested or when the overlay already has focus, otherwise
// in the current tab with history.
func (m *Model) openScreen(intent *screens.Intent) error {
	s, err := m.registry.Instantiate(intent.Screen, intent.Args)
	if err != nil {
		return err
	}
	if h, ok := s.(*screens.Help); ok {
		h.Bindings = m.help.FullHelpView(m.keys.FullHelp())
	}
	if intent.Overlay || m.overlayStack.Current() != nil {
		return m.apply(linear.Forward{Screen: s})
	}
	return m.apply(tabs.OpenInTab{Screen: s, AddToBackStack: true})
}

// apply routes cmds and journals each one. Back requests are journaled
// with the stage of the cascade that consumed them.
func (m *Model) apply(cmds ...nav.Command) error {
	for _, cmd := range cmds {
		if _, ok := cmd.(nav.Back); ok {
			m.capturing, m.captured = true, m.captured[:0]
			err := m.router.Navigate(cmd)
			m.capturing = false
			if err != nil {
				m.record(journal.FromCommand(cmd, err, m.depth()))
				return err
			}
			m.record(journal.FromBack(journal.BackOutcome(m.captured), m.depth()))
			continue
		}

		err := m.router.Navigate(cmd)
		m.record(journal.FromCommand(cmd, err, m.depth()))
		if err != nil {
			return err
		}
	}
	return nil
}

// afterNavigate quits once the back cascade has finished the host.
func (m *Model) afterNavigate() tea.Cmd {
	if !m.finished {
		return nil
	}
	return m.quit()
}

func (m *Model) quit() tea.Cmd {
	if err := m.persist(); err != nil {
		m.logger.Error().Err(err).Msg("saving navigation state")
	}
	return tea.Quit
}

func (m *Model) onEvent(ev nav.Event) {
	if m.capturing {
		m.captured = append(m.captured, ev)
	}
	rec := journal.FromEvent(ev, m.depth())
	m.pushEvent(rec)
	m.record(rec)
}

func (m *Model) onShow(_ nav.Screen, t nav.Transition) {
	m.lastTransition = t
}

func (m *Model) record(rec *database.NavEvent) {
	if rec.Kind == database.KindError {
		m.pushEvent(rec)
	}
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(rec); err != nil {
		m.logger.Warn().Err(err).Str("kind", rec.Kind).Msg("journal record dropped")
	}
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}
}

// depth is the number of back steps held by both zones.
func (m *Model) depth() int {
	return m.overlayStack.Depth() + m.tabbed.BackStack().Len()
}

// activeScreen is the screen receiving keys: the overlay top if any, else
// the current tab screen.
func (m *Model) activeScreen() screens.Screen {
	if s, ok := m.overlayStack.Current().(screens.Screen); ok {
		return s
	}
	if s, ok := m.tabStack.Current().(screens.Screen); ok {
		return s
	}
	return nil
}

func (m *Model) stateJSON() string {
	state, err := m.navigator.SaveState()
	if err != nil {
		return ""
	}
	b, err := json.Marshal(state)
	if err != nil {
		return ""
	}
	return string(b)
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(m)
	footer := renderFooter(m)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderBody(bodyHeight), footer)
}

// renderBody lays out the screen, the event pane and the diff pane.
func (m *Model) renderBody(totalHeight int) string {
	screenHeight := totalHeight
	var diff string
	if m.showDiff {
		diffHeight := totalHeight * 35 / 100
		screenHeight = totalHeight - diffHeight
		diff = renderDiffPanel(m, m.width, diffHeight)
	}

	// Collapse the event pane on narrow terminals
	screenWidth := m.width
	var events string
	if m.showEvents && m.width >= 60 {
		eventsWidth := m.width * 40 / 100
		screenWidth = m.width - eventsWidth
		events = renderEventPanel(m, eventsWidth, screenHeight)
	}

	top := renderScreenPanel(m, screenWidth, screenHeight)
	if events != "" {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, events)
	}
	if diff == "" {
		return top
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, diff)
}

// renderScreenPanel draws the current tab screen, with the overlay on top
// of it when one is open.
func renderScreenPanel(m *Model, width, height int) string {
	var content string
	if s, ok := m.tabStack.Current().(screens.Screen); ok {
		content = s.View(width-4, height-2)
	} else {
		content = emptyStateStyle.Render("Nothing to show.")
	}

	if s, ok := m.overlayStack.Current().(screens.Screen); ok {
		box := overlayStyle.Render(panelTitleStyle.Render(s.Title()) + "\n\n" + s.View(width/2, height/2))
		content = lipgloss.Place(width-4, height-2, lipgloss.Center, lipgloss.Center, box)
	}

	return panelActiveStyle.Width(width).Height(height).Render(content)
}
