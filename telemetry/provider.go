package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/c2fo/blobfs"
)

// EnvEndpoint names the environment variable consulted when ProviderConfig sets no endpoint.
const EnvEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"

// ProviderConfig configures NewProvider.
type ProviderConfig struct {
	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP/HTTP URL spans are exported to. Empty falls back to OTEL_EXPORTER_OTLP_ENDPOINT, and
	// without either spans are dropped after recording.
	Endpoint string

	// Exporter replaces the exporter chosen from Endpoint. Spans reach it synchronously.
	Exporter sdktrace.SpanExporter
}

// Provider owns the tracer provider tracing a process's adapters.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider builds a Provider for cfg. It leaves the global tracer provider alone unless SetGlobal is called.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	var processor sdktrace.SpanProcessor
	switch endpoint := cfg.endpoint(); {
	case cfg.Exporter != nil:
		processor = sdktrace.NewSimpleSpanProcessor(cfg.Exporter)
	case endpoint != "":
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, fmt.Errorf("otlp exporter for %s: %w", endpoint, err)
		}
		processor = sdktrace.NewBatchSpanProcessor(exporter)
	default:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(io.Discard))
		if err != nil {
			return nil, fmt.Errorf("discarding exporter: %w", err)
		}
		processor = sdktrace.NewSimpleSpanProcessor(exporter)
	}

	return &Provider{tp: sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)}, nil
}

func (c ProviderConfig) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return os.Getenv(EnvEndpoint)
}

// Tracer returns the tracer adapters record their spans with.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(InstrumentationName)
}

// Decorate wraps adapter in an Adapter tagged with the disk name. It fits disk.WithDecorator.
func (p *Provider) Decorate(name string, adapter blobfs.Adapter) blobfs.Adapter {
	return NewAdapter(adapter, p.Tracer(), WithDisk(name))
}

// SetGlobal installs the provider, and the W3C trace context and baggage propagators, as the otel globals.
func (p *Provider) SetGlobal() {
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
