package testutil

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/operations"
)

// MockStage is an operations.Step whose body is ExecuteFunc. A nil
// ExecuteFunc succeeds.
type MockStage struct {
	IDValue     string
	NameValue   string
	ExecuteFunc func(ctx context.Context, state *operations.OperationState) error

	calls atomic.Int32
}

func (m *MockStage) ID() string   { return m.IDValue }
func (m *MockStage) Name() string { return m.NameValue }

func (m *MockStage) Execute(ctx context.Context, state *operations.OperationState) error {
	m.calls.Add(1)
	if m.ExecuteFunc == nil {
		return nil
	}
	return m.ExecuteFunc(ctx, state)
}

// Calls counts Execute invocations.
func (m *MockStage) Calls() int { return int(m.calls.Load()) }

func CreateSuccessfulStage(id, name string) *MockStage {
	return &MockStage{IDValue: id, NameValue: name}
}

func CreateFailingStage(id, name string, err error) *MockStage {
	return &MockStage{
		IDValue:     id,
		NameValue:   name,
		ExecuteFunc: func(context.Context, *operations.OperationState) error { return err },
	}
}

// CreateSkippingStage returns a step that skips itself with reason.
func CreateSkippingStage(id, reason string) *MockStage {
	return CreateFailingStage(id, id, fmt.Errorf("%s: %w", reason, operations.ErrSkipStage))
}

// CreateRecordingStage appends its ID to order when run. Steps run
// sequentially so order needs no lock.
func CreateRecordingStage(id string, order *[]string) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: id,
		ExecuteFunc: func(context.Context, *operations.OperationState) error {
			*order = append(*order, id)
			return nil
		},
	}
}
