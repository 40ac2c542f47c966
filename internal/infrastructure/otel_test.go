package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestInitializeTelemetry_MetricsTextfile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "acidentes.prom")
	cfg := config.TelemetryConfig{EnableMetrics: true, TraceExporter: "none", SampleRatio: 1}

	tel, err := InitializeTelemetry(cfg, metricsFile, nil, testLogger())
	require.NoError(t, err)
	require.NotNil(t, tel.Registry)
	require.NotNil(t, tel.Metrics)
	assert.Nil(t, tel.TracerProvider)

	ctx := context.Background()
	tel.Metrics.RecordFile(ctx, "parsed", 120)
	tel.Metrics.RecordDropped(ctx, "year_filter", 3)
	tel.Metrics.RecordStep(ctx, "load", "completed", 250*time.Millisecond)

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "acidentes_rows_loaded")
	assert.Contains(t, string(content), "acidentes_rows_dropped")
	assert.Contains(t, string(content), "acidentes_step_duration")
}

func TestInitializeTelemetry_StdoutTracing(t *testing.T) {
	var out bytes.Buffer
	cfg := config.TelemetryConfig{EnableTracing: true, TraceExporter: "stdout", SampleRatio: 1}

	tel, err := InitializeTelemetry(cfg, "", &out, testLogger())
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	ctx, span := tel.Tracer.Start(context.Background(), "clean")
	assert.NotEmpty(t, SpanTraceID(ctx))
	RecordError(ctx, errors.New("column missing"))
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.Contains(t, out.String(), "\"Name\": \"clean\"")
}

func TestInitializeTelemetry_Disabled(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none"}, "", nil, testLogger())
	require.NoError(t, err)

	assert.Nil(t, tel.Registry)
	assert.Nil(t, tel.MeterProvider)
	require.NotNil(t, tel.Metrics, "noop meter still yields usable instruments")

	ctx, span := tel.Tracer.Start(context.Background(), "noop")
	tel.Metrics.RecordArtifact(ctx, "fase_dia.json", "written")
	span.End()
	assert.Empty(t, SpanTraceID(ctx))
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordFile(ctx, "failed", 0)
		m.RecordDropped(ctx, "year_filter", 1)
		m.RecordImputed(ctx, "br", "median", 2)
		m.RecordArtifact(ctx, "x.json", "skipped")
		m.RecordStep(ctx, "load", "failed", time.Second)
	})
}

func TestInitializeTelemetry_UnsupportedExporter(t *testing.T) {
	cfg := config.TelemetryConfig{EnableTracing: true, TraceExporter: "otlp"}
	_, err := InitializeTelemetry(cfg, "", nil, testLogger())
	assert.Error(t, err)
}
