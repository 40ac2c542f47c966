package operations_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/operations"
)

func TestNewStepState(t *testing.T) {
	state := operations.NewStepState("load", "Load Inputs")

	assert.Equal(t, "load", state.ID)
	assert.Equal(t, "Load Inputs", state.Name)
	assert.Equal(t, operations.StepStatusPending, state.Status)
	assert.NotNil(t, state.Metadata)
	assert.Nil(t, state.StartTime)
	assert.Nil(t, state.EndTime)
	assert.Zero(t, state.Duration())
}

func TestStepStateTransitions(t *testing.T) {
	failure := errors.New("boom")

	tests := []struct {
		name       string
		transition func(*operations.StepState)
		wantStatus operations.StepStatus
		check      func(*testing.T, *operations.StepState)
	}{
		{
			name:       "Start",
			transition: func(s *operations.StepState) { s.Start() },
			wantStatus: operations.StepStatusActive,
			check: func(t *testing.T, s *operations.StepState) {
				assert.NotNil(t, s.StartTime)
				assert.Nil(t, s.EndTime)
			},
		},
		{
			name: "Complete",
			transition: func(s *operations.StepState) {
				s.Start()
				s.Complete()
			},
			wantStatus: operations.StepStatusCompleted,
			check: func(t *testing.T, s *operations.StepState) {
				assert.NotNil(t, s.EndTime)
				assert.False(t, s.EndTime.Before(*s.StartTime))
			},
		},
		{
			name: "Fail",
			transition: func(s *operations.StepState) {
				s.Start()
				s.Fail(failure)
			},
			wantStatus: operations.StepStatusFailed,
			check: func(t *testing.T, s *operations.StepState) {
				assert.Equal(t, failure, s.Error)
			},
		},
		{
			name:       "Skip",
			transition: func(s *operations.StepState) { s.Skip("no workbook configured") },
			wantStatus: operations.StepStatusSkipped,
			check: func(t *testing.T, s *operations.StepState) {
				assert.Equal(t, "no workbook configured", s.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := operations.NewStepState("step", "Step")
			tt.transition(s)
			assert.Equal(t, tt.wantStatus, s.GetStatus())
			tt.check(t, s)
		})
	}
}

func TestStepStateDuration(t *testing.T) {
	s := operations.NewStepState("step", "Step")
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Complete()

	d := s.Duration()
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.Equal(t, d, s.Duration(), "duration is frozen once ended")
}

func TestOperationStateArtifacts(t *testing.T) {
	state := operations.NewOperationState("run", operations.CommandAnalyze)
	state.RecordArtifact("top_10_causas.json", operations.ArtifactWritten)
	state.RecordArtifact("tipo_pista.json", operations.ArtifactSkipped)
	state.RecordArtifact("fase_dia.json", operations.ArtifactFailed)

	assert.Equal(t, []string{"top_10_causas.json"}, state.Artifacts.Written)
	assert.Equal(t, []string{"tipo_pista.json"}, state.Artifacts.Skipped)
	assert.Equal(t, []string{"fase_dia.json"}, state.Artifacts.Failed)
}

func TestWrapError(t *testing.T) {
	cause := errors.New("disk full")

	wrapped := operations.WrapError(cause, "snapshot", "step execution failed")
	assert.Equal(t, "snapshot", wrapped.Step)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "disk full")

	timeout := operations.NewTimeoutError("", time.Second)
	rewrapped := operations.WrapError(timeout, "load", "")
	assert.Same(t, timeout, rewrapped)
	assert.Equal(t, "load", rewrapped.Step)

	assert.Nil(t, operations.WrapError(nil, "x", "y"))
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
}
