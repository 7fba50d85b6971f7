package journal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

func newStore(t *testing.T) *database.DBService {
	t.Helper()
	svc, err := database.NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestWriterFlushesOnClose(t *testing.T) {
	store := newStore(t)
	w, err := Open(store, "tui", Config{BatchSize: 100, FlushInterval: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := w.Record(FromEvent(nav.OpenScreenEvent{Tag: "home"}, i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := w.Close(database.SessionFinished); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(database.SessionFinished); err != nil {
		t.Errorf("second Close: %v", err)
	}

	session := w.SessionID()
	events, err := store.QueryEvents(database.EventFilter{SessionID: &session})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != int64(i+1) {
			t.Errorf("event %d seq = %d", i, ev.Seq)
		}
	}

	m := w.Metrics()
	if m.Recorded != 5 || m.Written != 5 || m.Batches != 1 {
		t.Errorf("metrics = %+v", m)
	}

	sessions, err := store.ListSessions(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Status != database.SessionFinished {
		t.Errorf("sessions = %+v", sessions)
	}

	if err := w.Record(&database.NavEvent{Kind: database.KindOpen}); !errors.Is(err, ErrClosed) {
		t.Errorf("Record after Close = %v, want ErrClosed", err)
	}
}

func TestWriterFlushesOnBatchSize(t *testing.T) {
	store := newStore(t)
	w, err := Open(store, "tui", Config{BatchSize: 2, FlushInterval: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close(database.SessionFinished)

	w.Record(FromEvent(nav.OpenScreenEvent{Tag: "a"}, 0))
	w.Record(FromEvent(nav.OpenScreenEvent{Tag: "b"}, 1))

	deadline := time.Now().Add(2 * time.Second)
	for w.Metrics().Batches == 0 {
		if time.Now().After(deadline) {
			t.Fatal("batch was not flushed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// failingStore rejects batches.
type failingStore struct {
	mu     sync.Mutex
	direct int
}

func (f *failingStore) StartSession(*database.Session) error { return nil }
func (f *failingStore) EndSession(string, string) error      { return nil }

func (f *failingStore) InsertEvent(*database.NavEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct++
	return nil
}
func (f *failingStore) BatchInsertEvents([]*database.NavEvent) error {
	return errors.New("disk full")
}

func TestWriterCountsFlushErrors(t *testing.T) {
	store := &failingStore{}
	w, err := Open(store, "tui", Config{BatchSize: 10, FlushInterval: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	w.Record(&database.NavEvent{Kind: database.KindOpen})
	if err := w.Close(database.SessionAborted); err != nil {
		t.Fatal(err)
	}
	if m := w.Metrics(); m.Errors != 1 || m.Written != 0 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestFromEvent(t *testing.T) {
	tab := tabs.Tab{ID: 2, Tag: "browse", Root: "browse"}
	cases := []struct {
		ev     nav.Event
		kind   string
		tab    string
		screen string
	}{
		{nav.LaunchHostEvent{Host: "tui"}, database.KindLaunch, "", ""},
		{nav.FinishHostEvent{Host: "tui"}, database.KindFinish, "", ""},
		{nav.OpenScreenEvent{Tag: "help"}, database.KindOpen, "", "help"},
		{nav.CloseScreenEvent{Tag: "help"}, database.KindClose, "", "help"},
		{tabs.OpenTabScreenEvent{Tab: tab, Screen: "item"}, database.KindOpen, "browse#2", "item"},
		{tabs.CloseTabScreenEvent{Tab: tab, Screen: "item"}, database.KindClose, "browse#2", "item"},
		{tabs.SwitchTabEvent{Tab: tab}, database.KindSwitchTab, "browse#2", ""},
	}
	for _, tc := range cases {
		rec := FromEvent(tc.ev, 3)
		if rec.Kind != tc.kind || rec.Depth != 3 || rec.Message != tc.ev.Message() {
			t.Errorf("FromEvent(%T) = %+v", tc.ev, rec)
		}
		if got := deref(rec.Tab); got != tc.tab {
			t.Errorf("FromEvent(%T) tab = %q, want %q", tc.ev, got, tc.tab)
		}
		if got := deref(rec.Screen); got != tc.screen {
			t.Errorf("FromEvent(%T) screen = %q, want %q", tc.ev, got, tc.screen)
		}
	}
}

func TestFromCommand(t *testing.T) {
	ok := FromCommand(tabs.ReselectTab{}, nil, 0)
	if ok.Kind != database.KindCommand || deref(ok.Command) != "reselect_tab" {
		t.Errorf("FromCommand = %+v", ok)
	}
	failed := FromCommand(tabs.ReselectTab{}, nav.ErrNoCurrentTab, 0)
	if failed.Kind != database.KindError || failed.Message != nav.ErrNoCurrentTab.Error() {
		t.Errorf("FromCommand = %+v", failed)
	}
}

func TestBackOutcome(t *testing.T) {
	tab := tabs.Tab{ID: 1, Tag: "home", Root: "home"}
	cases := map[string][]nav.Event{
		OutcomeScreen: nil,
		OutcomeLinear: {nav.CloseScreenEvent{Tag: "help"}},
		OutcomeTabs:   {tabs.SwitchTabEvent{Tab: tab}, tabs.CloseTabScreenEvent{Tab: tab}},
		OutcomeFinish: {nav.FinishHostEvent{Host: "tui"}},
	}
	for want, events := range cases {
		if got := BackOutcome(events); got != want {
			t.Errorf("BackOutcome(%v) = %s, want %s", events, got, want)
		}
	}
	rec := FromBack(OutcomeTabs, 1)
	if rec.Kind != database.KindBack || deref(rec.Outcome) != OutcomeTabs {
		t.Errorf("FromBack = %+v", rec)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
