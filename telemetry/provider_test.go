package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend/mem"
)

func TestProviderDecoratesWithoutGlobals(t *testing.T) {
	previous := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()

	provider, err := NewProvider(t.Context(), ProviderConfig{ServiceName: "blobfs-test", Exporter: exporter})
	require.NoError(t, err)

	adapter := provider.Decorate("scratch", mem.NewAdapter())
	require.NoError(t, adapter.Write(t.Context(), "a.txt", []byte("x"), nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "blobfs.Write", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, AttrDisk.String("scratch"))
	service, ok := spans[0].Resource.Set().Value(attribute.Key("service.name"))
	assert.True(t, ok)
	assert.Equal(t, "blobfs-test", service.AsString())
	assert.Same(t, previous, otel.GetTracerProvider(), "the global provider is left alone")

	assert.True(t, blobfs.Implements[*mem.Adapter](adapter))
	assert.NoError(t, provider.Shutdown(t.Context()))
}

func TestProviderWithoutEndpoint(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	provider, err := NewProvider(t.Context(), ProviderConfig{ServiceName: "blobfs-test", ServiceVersion: "0.0.1"})
	require.NoError(t, err)
	provider.SetGlobal()

	_, span := otel.Tracer("test").Start(t.Context(), "noop")
	span.End()
	assert.True(t, span.SpanContext().IsValid(), "the installed provider samples spans")

	assert.NoError(t, provider.Shutdown(t.Context()))
}
