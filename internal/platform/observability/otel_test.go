package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/Inventario-batch/pkg/config"
)

func TestSetupTracing_SinEndpointEsNoop(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), config.TelemetryConfig{ServiceName: "test"}, "0.0.0")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
