package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestStdoutExporterWritesSpans(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	tp, err := InitTracerProvider(ctx, Options{Exporter: "stdout", Out: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "cartstore.AddToCart")
	span.End()
	require.NoError(t, tp.Shutdown(ctx))

	assert.Contains(t, buf.String(), "cartstore.AddToCart")
	assert.Contains(t, buf.String(), "cartstore")
}

func TestNoneExporter(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracerProvider(ctx, Options{Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, tp.Shutdown(ctx))
}

func TestUnknownExporter(t *testing.T) {
	_, err := InitTracerProvider(context.Background(), Options{Exporter: "zipkin"})
	assert.Error(t, err)
}
