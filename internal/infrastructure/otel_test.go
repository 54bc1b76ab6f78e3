package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOTelConfig_Development(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg := DefaultOTelConfig()
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)

	// Metrics off here: the prometheus exporter registers with the global
	// registry and may only do so once per process.
	cfg.MetricExporter = "none"
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.Tracer)
}

func TestDefaultOTelConfig_Production(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg := DefaultOTelConfig()
	assert.False(t, cfg.EnableTracing)
	assert.Equal(t, "none", cfg.TraceExporter)

	cfg.MetricExporter = "none"
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.Tracer)
}
