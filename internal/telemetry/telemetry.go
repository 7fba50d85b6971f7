// Package telemetry sets up OpenTelemetry tracing for navigation commands.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation name of navigation spans.
const TracerName = "wayfinder/nav"

// Provider hands out the navigation tracer and flushes it on shutdown.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// New exports spans to endpoint over OTLP/HTTP. An empty endpoint yields a
// provider whose tracer records nothing.
func New(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	if serviceName == "" {
		serviceName = "wayfinder"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	return NewWithExporter(exporter, res), nil
}

// NewWithExporter builds a provider around an arbitrary span exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, res *resource.Resource) *Provider {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithBatcher(exporter)}
	if res != nil {
		opts = append(opts, sdktrace.WithResource(res))
	}
	provider := sdktrace.NewTracerProvider(opts...)
	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.provider != nil
}

// Tracer returns the navigation tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
