package operations

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateStep is returned when a step ID is registered twice.
var ErrDuplicateStep = errors.New("step already registered")

// Registry is the ordered list of steps a Manager runs.
type Registry struct {
	mu    sync.RWMutex
	steps []Step
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends step. IDs must be non-empty and unique.
func (r *Registry) Register(step Step) error {
	if step == nil || step.ID() == "" {
		return errors.New("step must have a non-empty ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(step.ID()) >= 0 {
		return fmt.Errorf("%s: %w", step.ID(), ErrDuplicateStep)
	}
	r.steps = append(r.steps, step)
	return nil
}

func (r *Registry) indexOf(id string) int {
	for i, s := range r.steps {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// Has reports whether a step with id was registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0
}

// List returns a copy of the steps in run order.
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Step(nil), r.steps...)
}
