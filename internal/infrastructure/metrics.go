package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics groups the instruments recorded by a pipeline run.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	FilesLoaded    metric.Int64Counter
	RowsLoaded     metric.Int64Counter
	RowsDropped    metric.Int64Counter
	ValuesImputed  metric.Int64Counter
	Artifacts      metric.Int64Counter
	StepDuration   metric.Float64Histogram
	StepExecutions metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesLoaded, err := meter.Int64Counter(
		"acidentes_files_loaded_total",
		metric.WithDescription("Input files processed by the loader, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"acidentes_rows_loaded_total",
		metric.WithDescription("Rows read from input files"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"acidentes_rows_dropped_total",
		metric.WithDescription("Rows removed by the year filter, by reason"),
	)
	if err != nil {
		return nil, err
	}

	valuesImputed, err := meter.Int64Counter(
		"acidentes_values_imputed_total",
		metric.WithDescription("Absent values filled by the cleaner, by strategy"),
	)
	if err != nil {
		return nil, err
	}

	artifacts, err := meter.Int64Counter(
		"acidentes_artifacts_total",
		metric.WithDescription("Dashboard artifacts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"acidentes_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepExecutions, err := meter.Int64Counter(
		"acidentes_step_executions_total",
		metric.WithDescription("Pipeline step executions, by status"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesLoaded:    filesLoaded,
		RowsLoaded:     rowsLoaded,
		RowsDropped:    rowsDropped,
		ValuesImputed:  valuesImputed,
		Artifacts:      artifacts,
		StepDuration:   stepDuration,
		StepExecutions: stepExecutions,
	}, nil
}

// RecordFile records one loader file outcome ("parsed" or "failed")
func (m *PipelineMetrics) RecordFile(ctx context.Context, status string, rows int) {
	if m == nil {
		return
	}
	m.FilesLoaded.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if rows > 0 {
		m.RowsLoaded.Add(ctx, int64(rows))
	}
}

// RecordDropped records rows removed for reason
func (m *PipelineMetrics) RecordDropped(ctx context.Context, reason string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordImputed records values filled in column with strategy
func (m *PipelineMetrics) RecordImputed(ctx context.Context, column, strategy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ValuesImputed.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("column", column),
		attribute.String("strategy", strategy),
	))
}

// RecordArtifact records one artifact outcome ("written", "skipped" or "failed")
func (m *PipelineMetrics) RecordArtifact(ctx context.Context, name, status string) {
	if m == nil {
		return
	}
	m.Artifacts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("artifact", name),
		attribute.String("status", status),
	))
}

// RecordStep records a pipeline step execution
func (m *PipelineMetrics) RecordStep(ctx context.Context, stepID, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", status),
	)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
	m.StepExecutions.Add(ctx, 1, attrs)
}
