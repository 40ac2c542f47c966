package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts"
)

const (
	ServiceName = "acidentes-pipeline"
	MeterName   = "github.com/agilsonaraujoo/ProjetoCD-acidentes"
)

// Telemetry holds the OpenTelemetry providers of one pipeline run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics
	Logger         *slog.Logger

	metricsFile string
}

// InitializeTelemetry wires tracing and metrics for one batch run. With
// tracing off the no-op tracer is used; with metrics on, instruments land
// in a private Prometheus registry that Shutdown writes to metricsFile.
func InitializeTelemetry(cfg config.TelemetryConfig, metricsFile string, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if traceOut == nil {
		traceOut = os.Stderr
	}

	tel := &Telemetry{
		Tracer:      tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:       metricnoop.NewMeterProvider().Meter(MeterName),
		Logger:      logger,
		metricsFile: metricsFile,
	}
	res := runResource(cfg.Environment)

	if cfg.EnableTracing && cfg.TraceExporter != "none" {
		if err := tel.initializeTracing(cfg, res, traceOut); err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
	}
	if cfg.EnableMetrics {
		if err := tel.initializeMetrics(res); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	metrics, err := NewPipelineMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("pipeline instruments: %w", err)
	}
	tel.Metrics = metrics

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", tel.TracerProvider != nil),
		slog.Bool("metrics_enabled", tel.Registry != nil),
		slog.String("metrics_file", metricsFile))
	return tel, nil
}

// runResource identifies this process. Each run gets its own instance ID
// so metric files from repeated runs on one host stay apart.
func runResource(env string) *resource.Resource {
	if env == "" {
		env = "development"
	}
	host, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.ServiceInstanceID(GenerateTraceID()),
		semconv.DeploymentEnvironmentName(env),
		semconv.HostName(host),
	)
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.Registry = registry
	t.MeterProvider = mp
	t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	otel.SetMeterProvider(mp)
	return nil
}

// Shutdown writes the metrics textfile, then stops both providers. It
// keeps going past failures and returns them joined.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Registry != nil && t.metricsFile != "" {
		errs = append(errs, t.writeMetrics())
	}
	if t.TracerProvider != nil {
		errs = append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *Telemetry) writeMetrics() error {
	if err := os.MkdirAll(filepath.Dir(t.metricsFile), config.DefaultDirPermission); err != nil {
		return fmt.Errorf("metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("metrics textfile %s: %w", t.metricsFile, err)
	}
	return nil
}

// SpanTraceID returns the OpenTelemetry trace ID of the span in ctx, or ""
// when no sampled span is active.
func SpanTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
