package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName: "blogapi-test",
		Enabled:     false,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// The no-op tracer still yields usable spans
	require.NotNil(t, Tracer)
	span, ctx := NewSpan(context.Background(), "test-op")
	require.NotNil(t, ctx)
	span.AddAttributes(attribute.String("key", "value"))
	span.SetError(errors.New("recorded"))
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingStdoutExporter(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "blogapi-test",
		Environment:  "test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 1.0,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	span, _ := NewSpan(context.Background(), "traced-op")
	assert.NotEmpty(t, span.TraceID())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
