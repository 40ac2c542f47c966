// Package operations runs the pipeline as an ordered list of steps.
//
// Core Components:
//
// Manager: executes the registered steps sequentially against one
// OperationState, each inside its own OpenTelemetry span and timeout. The
// first Step error is fatal: the remaining steps are marked skipped and the
// error is returned to the caller. A Step that returns an error wrapping
// ErrSkipStage is recorded as skipped and the run continues.
//
// Step: a single unit of work. The concrete steps in stages.go wrap the
// discovery, loading, filtering, cleaning, snapshot and aggregation
// components; prepare and analyze register different subsets.
//
// Registry: keeps the steps in registration order and rejects duplicates.
//
// State: OperationState tracks every StepState (pending, active, completed,
// failed, skipped with timings) and carries the data handed from step to
// step: discovered inputs, the Dataset, the load/filter/cleaning reports
// and the artifact summary.
//
// Example usage:
//
//	manager := operations.NewManager(nil, nil, operations.NewOperationTracer(telemetry), logger)
//	manager.RegisterStage(operations.NewDiscoverStage(discovery, validator, dirs, cfg.Input, logger))
//	manager.RegisterStage(operations.NewLoadStage(loader, telemetry.Metrics))
//	state := operations.NewOperationState(runID, operations.CommandPrepare)
//	resp, err := manager.Execute(ctx, state)
package operations
