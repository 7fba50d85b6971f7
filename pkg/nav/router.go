package nav

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Router is the front door for navigation. It forwards commands to the
// currently bound Navigator and republishes that navigator's events. The
// navigator may be swapped at any time, for example when the host is
// recreated.
type Router struct {
	logger zerolog.Logger
	tracer trace.Tracer

	events Emitter
	nav    *Navigator
	sub    Subscription
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger logs every routed event message at debug level.
func WithLogger(l zerolog.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// WithTracer records one span per routed command.
func WithTracer(t trace.Tracer) RouterOption {
	return func(r *Router) { r.tracer = t }
}

// NewRouter creates a router with no navigator bound.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		logger: zerolog.Nop(),
		tracer: noop.NewTracerProvider().Tracer("wayfinder/nav"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetNavigator binds n, replacing any previous navigator. The previous
// navigator's subscription is disposed before n is subscribed, so no event
// of the old navigator is republished afterwards. A nil n unbinds.
func (r *Router) SetNavigator(n *Navigator) {
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
	r.nav = n
	if n == nil {
		return
	}
	r.sub = n.Subscribe(r.publish)
	n.Start()
}

// Navigator returns the bound navigator, or nil.
func (r *Router) Navigator() *Navigator {
	return r.nav
}

// Navigate applies cmds in order against the bound navigator and stops at
// the first error. Without a navigator the commands are dropped.
func (r *Router) Navigate(cmds ...Command) error {
	n := r.nav
	if n == nil {
		return nil
	}
	for _, cmd := range cmds {
		if err := r.navigate(n, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) navigate(n *Navigator, cmd Command) error {
	_, span := r.tracer.Start(context.Background(), "nav.navigate",
		trace.WithAttributes(attribute.String("nav.command", cmd.CommandName())))
	defer span.End()

	if err := n.Navigate(cmd); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error().Err(err).Str("command", cmd.CommandName()).Msg("navigation failed")
		return err
	}
	return nil
}

// Subscribe registers fn on the router's aggregate event stream. The
// subscription survives navigator swaps.
func (r *Router) Subscribe(fn func(Event)) Subscription {
	return r.events.Subscribe(fn)
}

func (r *Router) publish(ev Event) {
	r.logger.Debug().Msg(ev.Message())
	r.events.Emit(ev)
}
