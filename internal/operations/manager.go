package operations

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Manager runs the registered steps of a pipeline in order
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new operation manager with dependency injection
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   logger,
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs every registered Step sequentially against state. The first
// Step error aborts the run: the remaining steps are marked skipped and the
// error is returned. A Step returning ErrSkipStage is skipped without
// aborting.
func (m *Manager) Execute(ctx context.Context, state *OperationState) (*OperationResponse, error) {
	steps := m.registry.List()
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, state.ID, state.Command)
	defer span.End()

	m.logOperationStart(ctx, state, len(steps))
	state.Start()

	err := m.executeSequential(ctx, state, steps)
	if err != nil {
		if errors.Is(err, context.Canceled) || GetErrorType(err) == ErrorTypeCancellation {
			state.Cancel()
		} else {
			state.Fail(err)
		}
		m.logOperationError(ctx, state.ID, err)
	} else {
		state.Complete()
	}

	m.tracer.RecordOperationCompletion(ctx, span, state.Status, state.Duration(), err)
	m.logOperationComplete(ctx, state)
	return m.createResponse(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if ctx.Err() != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID())
		}

		m.logStageStart(ctx, state.ID, step.ID(), i+1, len(steps))
		if err := m.executeStage(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], "previous step "+step.ID()+" failed")
			return err
		}
	}
	return nil
}

// executeStage executes a single Step inside its own span and timeout
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	timeout := m.config.TimeoutFor(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	err := step.Execute(stageCtx, state)
	duration := stepState.Duration()

	switch {
	case err == nil:
		stepState.Complete()
		m.logStageComplete(ctx, state.ID, step.ID(), duration)
		m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), StepStatusCompleted, duration, nil)
		return nil

	case errors.Is(err, ErrSkipStage):
		reason := strings.TrimSuffix(strings.TrimSuffix(err.Error(), ErrSkipStage.Error()), ": ")
		stepState.Skip(reason)
		m.logStageSkipped(ctx, state.ID, step.ID(), reason)
		m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), StepStatusSkipped, duration, nil)
		return nil
	}

	if errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(step.ID(), timeout)
	}

	stepState.Fail(err)
	m.logStageError(ctx, state.ID, step.ID(), duration, err)
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), StepStatusFailed, duration, err)
	if ctx.Err() != nil {
		return NewCancellationError(step.ID())
	}
	return WrapError(err, step.ID(), "step execution failed")
}

// skipRemaining marks steps that will not run as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:        state.ID,
		Command:   state.Command,
		Status:    state.Status,
		Duration:  state.Duration(),
		Steps:     state.Stages(),
		Artifacts: state.Artifacts,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

// Run is a convenience wrapper returning only the error
func (m *Manager) Run(ctx context.Context, state *OperationState) error {
	_, err := m.Execute(ctx, state)
	return err
}
