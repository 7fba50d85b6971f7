package nav_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/navtest"
)

func TestRouterWithoutNavigator(t *testing.T) {
	r := nav.NewRouter()
	assert.NoError(t, r.Navigate(navtest.Command("x"), nav.Back{}))
	assert.Nil(t, r.Navigator())
}

func TestRouterAppliesInOrderAndStops(t *testing.T) {
	boom := errors.New("boom")
	u := newFakeUnit("a", "x", "z")
	u.accepts["y"] = boom
	n, err := nav.NewNavigator(&navtest.Host{}, nil, u)
	require.NoError(t, err)

	r := nav.NewRouter()
	r.SetNavigator(n)

	err = r.Navigate(navtest.Command("x"), navtest.Command("y"), navtest.Command("z"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"x"}, u.handled)
}

func TestRouterRebinding(t *testing.T) {
	first := newFakeUnit("first", "x")
	second := newFakeUnit("second", "x")
	n1, err := nav.NewNavigator(&navtest.Host{HostName: "one"}, nil, first)
	require.NoError(t, err)
	n2, err := nav.NewNavigator(&navtest.Host{HostName: "two"}, nil, second)
	require.NoError(t, err)

	r := nav.NewRouter()
	rec := &navtest.Recorder{}
	r.Subscribe(rec.Record)

	r.SetNavigator(n1)
	require.NoError(t, r.Navigate(navtest.Command("x")))
	r.SetNavigator(n2)

	// The old navigator keeps working but is no longer heard.
	require.NoError(t, n1.Navigate(navtest.Command("x")))
	require.NoError(t, r.Navigate(navtest.Command("x")))

	assert.Equal(t, []string{
		"launch one",
		"open screen first:x",
		"launch two",
		"open screen second:x",
	}, rec.Messages())
	assert.Same(t, n2, r.Navigator())

	r.SetNavigator(nil)
	assert.NoError(t, r.Navigate(navtest.Command("x")))
	assert.Len(t, second.handled, 1)
}

func TestRouterLogsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	n, err := nav.NewNavigator(&navtest.Host{}, nil, newFakeUnit("a", "x"))
	require.NoError(t, err)
	r := nav.NewRouter(nav.WithLogger(logger))
	r.SetNavigator(n)

	require.NoError(t, r.Navigate(navtest.Command("x")))
	assert.Contains(t, buf.String(), "open screen a:x")

	require.Error(t, r.Navigate(navtest.Command("missing")))
	assert.Contains(t, buf.String(), "navigation failed")
}

func TestRouterTracesCommands(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	n, err := nav.NewNavigator(&navtest.Host{}, nil, newFakeUnit("a", "x"))
	require.NoError(t, err)
	r := nav.NewRouter(nav.WithTracer(tp.Tracer("test")))
	r.SetNavigator(n)

	require.NoError(t, r.Navigate(navtest.Command("x")))
	require.Error(t, r.Navigate(navtest.Command("missing")))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "nav.navigate", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("nav.command", "x"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
