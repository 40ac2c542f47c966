package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/infrastructure"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer from the run telemetry. A nil
// telemetry yields a tracer that records nothing.
func NewOperationTracer(telemetry *infrastructure.Telemetry) *OperationTracer {
	ot := &OperationTracer{tracer: noop.NewTracerProvider().Tracer("")}
	if telemetry == nil {
		return ot
	}
	if telemetry.Tracer != nil {
		ot.tracer = telemetry.Tracer
	}
	ot.metrics = telemetry.Metrics
	return ot
}

// Metrics returns the pipeline instruments, possibly nil
func (ot *OperationTracer) Metrics() *infrastructure.PipelineMetrics {
	return ot.metrics
}

// TraceOperationExecution creates the root span of a run
func (ot *OperationTracer) TraceOperationExecution(ctx context.Context, operationID, command string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, command,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.command", command),
		),
	)
}

// TraceStageExecution creates a span for one Step
func (ot *OperationTracer) TraceStageExecution(ctx context.Context, operationID, stageID string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, stageID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stageID),
		),
	)
}

// RecordStageCompletion closes out a Step span and records its duration
func (ot *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stageID string, status StepStatus, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	switch status {
	case StepStatusFailed:
		if err != nil {
			infrastructure.RecordError(ctx, err)
		} else {
			span.SetStatus(codes.Error, "step execution failed")
		}
	default:
		infrastructure.AddSpanEvent(ctx, "step."+string(status),
			attribute.String("step.id", stageID))
		span.SetStatus(codes.Ok, "")
	}

	ot.metrics.RecordStep(ctx, stageID, string(status), duration)
}

// RecordOperationCompletion closes out the root span of a run
func (ot *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, status OperationStatusValue, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}
