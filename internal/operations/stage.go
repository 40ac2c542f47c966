package operations

import (
	"context"
	"sync"
	"time"
)

// Step is one unit of a prepare or analyze run. Execute reads and writes
// the shared OperationState; an error wrapping ErrSkipStage marks the step
// skipped instead of failing the run.
type Step interface {
	ID() string
	Name() string
	Execute(ctx context.Context, state *OperationState) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex           `json:"-"`
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Message   string                 `json:"message"`
	Error     error                  `json:"-"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start moves the step to active and clears any earlier end time.
func (s *StepState) Start() {
	now := time.Now()
	s.mu.Lock()
	s.Status, s.StartTime, s.EndTime = StepStatusActive, &now, nil
	s.mu.Unlock()
}

// finish stamps the end time with a terminal status.
func (s *StepState) finish(status StepStatus, err error, msg string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status, s.EndTime = status, &now
	if err != nil {
		s.Error = err
	}
	if msg != "" {
		s.Message = msg
	}
}

func (s *StepState) Complete() { s.finish(StepStatusCompleted, nil, "") }

func (s *StepState) Fail(err error) { s.finish(StepStatusFailed, err, "") }

// Skip records why the step did not run, e.g. "no workbook configured".
func (s *StepState) Skip(reason string) { s.finish(StepStatusSkipped, nil, reason) }

// SetMetadata records a value describing what the Step did
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
}

func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration is zero before Start, grows while active and is fixed once
// the step ends.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.StartTime == nil:
		return 0
	case s.EndTime == nil:
		return time.Since(*s.StartTime)
	default:
		return s.EndTime.Sub(*s.StartTime)
	}
}

// BaseStage is embedded by the pipeline steps to supply ID and Name.
type BaseStage struct {
	id, name string
}

func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

func (b BaseStage) ID() string   { return b.id }
func (b BaseStage) Name() string { return b.name }
