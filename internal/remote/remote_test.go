package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/linear"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/navtest"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/tabs"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	mt, payload, err := Encode(CommandMessage{Command: "back"})
	require.NoError(t, err)
	require.Equal(t, MsgCommand, mt)
	require.NoError(t, WriteFrame(&buf, mt, payload))

	gotType, gotPayload, err := ReadFrame(&buf)
	require.NoError(t, err)
	msgs, err := Decode(gotType, gotPayload)
	require.NoError(t, err)
	assert.Equal(t, []CommandMessage{{Command: "back"}}, msgs)
}

func TestEncodeBatch(t *testing.T) {
	mt, payload, err := Encode(CommandMessage{Command: "back"}, CommandMessage{Command: "switch_tab", Tab: "home"})
	require.NoError(t, err)
	assert.Equal(t, MsgBatch, mt)

	msgs, err := Decode(mt, payload)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "home", msgs[1].Tab)
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	frame := []byte{byte(MsgCommand), 0xff, 0xff, 0xff, 0xff}
	_, _, err := ReadFrame(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode(MessageType(0x7f), []byte("{}"))
	assert.Error(t, err)
}

var testTabs = map[string]tabs.Tab{
	"home":   {ID: 1, Tag: "home", Root: "home"},
	"browse": {ID: 2, Tag: "browse", Root: "browse"},
}

func lookup(tag string) (tabs.Tab, bool) {
	t, ok := testTabs[tag]
	return t, ok
}

func TestResolve(t *testing.T) {
	f := &navtest.Factory{}

	cmd, err := CommandMessage{Command: "open_in_tab", Tab: "browse", Screen: "item", Args: map[string]string{"id": "7"}, AddToBackStack: true}.Resolve(lookup, f)
	require.NoError(t, err)
	open, ok := cmd.(tabs.OpenInTab)
	require.True(t, ok)
	assert.Equal(t, testTabs["browse"], *open.Tab)
	assert.Equal(t, "item", open.Screen.Type())
	assert.Equal(t, nav.Args{"id": "7"}, open.Screen.Args())
	assert.True(t, open.AddToBackStack)

	cmd, err = CommandMessage{Command: "switch_tab", Tab: "home"}.Resolve(lookup, f)
	require.NoError(t, err)
	assert.Equal(t, tabs.SwitchTab{Tab: testTabs["home"]}, cmd)

	cmd, err = CommandMessage{Command: "clear_tab_back_stack"}.Resolve(lookup, f)
	require.NoError(t, err)
	assert.Equal(t, tabs.ClearBackStack{}, cmd)

	cmd, err = CommandMessage{Command: "back_to", Screen: "help"}.Resolve(lookup, f)
	require.NoError(t, err)
	assert.Equal(t, linear.BackTo{Tag: "help"}, cmd)

	cmd, err = CommandMessage{Command: "forward", Screen: "about", Tag: "about-1"}.Resolve(lookup, f)
	require.NoError(t, err)
	fwd, ok := cmd.(linear.Forward)
	require.True(t, ok)
	assert.Equal(t, "about-1", fwd.Tag)

	cmd, err = CommandMessage{Command: "back"}.Resolve(lookup, f)
	require.NoError(t, err)
	assert.Equal(t, nav.Back{}, cmd)
}

func TestResolveErrors(t *testing.T) {
	f := &navtest.Factory{Fail: map[string]error{"broken": errors.New("boom")}}

	cases := []CommandMessage{
		{Command: "teleport"},
		{Command: "switch_tab"},
		{Command: "switch_tab", Tab: "nowhere"},
		{Command: "open_in_tab", Tab: "home"},
		{Command: "open_in_tab", Screen: "broken"},
		{Command: "back_to"},
	}
	for _, m := range cases {
		_, err := m.Resolve(lookup, f)
		assert.Error(t, err, "command %+v", m)
	}
	assert.Empty(t, f.Created)
}

func startServer(t *testing.T, handler Handler) *Server {
	t.Helper()
	addr := filepath.Join(t.TempDir(), "ctl.sock")
	s := NewServer(Config{ListenAddr: addr}, handler, zerolog.Nop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop() })
	return s
}

func TestServerAppliesCommands(t *testing.T) {
	var mu sync.Mutex
	var got []CommandMessage
	s := startServer(t, func(msgs []CommandMessage) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msgs...)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, Send(ctx, s.config.ListenAddr, CommandMessage{Command: "switch_tab", Tab: "browse"}))
	require.NoError(t, Send(ctx, s.config.ListenAddr, CommandMessage{Command: "back"}, CommandMessage{Command: "back"}))

	mu.Lock()
	assert.Len(t, got, 3)
	mu.Unlock()

	m := s.Metrics()
	assert.Equal(t, int64(2), m.FramesReceived)
	assert.Equal(t, int64(3), m.CommandsApplied)
	assert.Equal(t, int64(2), m.Connections)
}

func TestServerRejectsFailingCommands(t *testing.T) {
	s := startServer(t, func(msgs []CommandMessage) error {
		return errors.New("unknown tab")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Send(ctx, s.config.ListenAddr, CommandMessage{Command: "switch_tab", Tab: "nowhere"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, int64(1), s.Metrics().CommandsFailed)
}

func TestServerReleasesClosedConnections(t *testing.T) {
	s := startServer(t, func([]CommandMessage) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	baseline := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		require.NoError(t, Send(ctx, s.config.ListenAddr, CommandMessage{Command: "back"}))
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 2*time.Second, 10*time.Millisecond, "goroutines: baseline %d, now %d", baseline, runtime.NumGoroutine())
	assert.Equal(t, int64(50), s.Metrics().Connections)
}

func TestSendWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := Send(ctx, filepath.Join(t.TempDir(), "missing.sock"), CommandMessage{Command: "back"})
	assert.Error(t, err)
}

func TestMetricsHandler(t *testing.T) {
	s := NewServer(Config{}, func([]CommandMessage) error { return nil }, zerolog.Nop())
	s.commandsApplied.Add(4)
	h := s.MetricsHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "wayfinder_commands_applied_total 4"), rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	var m Metrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, int64(4), m.CommandsApplied)
}
