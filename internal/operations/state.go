package operations

import (
	"sync"
	"time"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/dataprocessing"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// ArtifactSummary lists the output files by outcome
type ArtifactSummary struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// OperationState carries one run: step bookkeeping plus the data handed
// from step to step. Steps run one at a time and own the data fields
// while they execute; mu guards the bookkeeping only.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Command   string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps []*StepState

	Inputs    []domain.InputFile
	Dataset   *domain.Dataset
	Load      *domain.LoadReport
	Filter    *domain.FilterReport
	Cleaning  *domain.CleaningReport
	Source    string
	Codec     string
	Aggregate []dataprocessing.Artifact
	Stats     []domain.ColumnStats
	Artifacts ArtifactSummary
}

// NewOperationState starts pending; id is normally the run trace ID.
func NewOperationState(id, command string) *OperationState {
	return &OperationState{
		ID:        id,
		Command:   command,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
	}
}

func (p *OperationState) Start() {
	p.mu.Lock()
	p.Status, p.StartTime = OperationStatusRunning, time.Now()
	p.mu.Unlock()
}

func (p *OperationState) end(status OperationStatusValue, err error) {
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status, p.EndTime = status, &now
	if err != nil {
		p.Error = err
	}
}

func (p *OperationState) Complete()      { p.end(OperationStatusCompleted, nil) }
func (p *OperationState) Fail(err error) { p.end(OperationStatusFailed, err) }
func (p *OperationState) Cancel()        { p.end(OperationStatusCancelled, nil) }

// GetStage returns nil for an ID the run never registered.
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, st := range p.steps {
		if st.ID == stageID {
			return st
		}
	}
	return nil
}

// SetStage replaces the state of stageID in place, or appends it.
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, st := range p.steps {
		if st.ID == stageID {
			p.steps[i] = state
			return
		}
	}
	p.steps = append(p.steps, state)
}

// Stages returns the step states in registration order.
func (p *OperationState) Stages() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*StepState(nil), p.steps...)
}

func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime == nil {
		return time.Since(p.StartTime)
	}
	return p.EndTime.Sub(p.StartTime)
}

func (p *OperationState) HasFailures() bool {
	for _, st := range p.Stages() {
		if st.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// RecordArtifact files name under outcome in the run summary. Unknown
// outcomes count as failed.
func (p *OperationState) RecordArtifact(name, outcome string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a := &p.Artifacts
	switch outcome {
	case ArtifactWritten:
		a.Written = append(a.Written, name)
	case ArtifactSkipped:
		a.Skipped = append(a.Skipped, name)
	default:
		a.Failed = append(a.Failed, name)
	}
}
