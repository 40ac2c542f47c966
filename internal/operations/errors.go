package operations

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSkipStage is returned, possibly wrapped, by a Step with nothing to do.
// The wrapping text becomes the skip reason.
var ErrSkipStage = errors.New("stage skipped")

// ErrorType tells how a run ended when it did not complete.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeFatal        ErrorType = "fatal"
)

// OperationError is the error a Manager returns for a failed step.
type OperationError struct {
	Type    ErrorType `json:"type"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *OperationError) Error() string {
	prefix := "[" + string(e.Type) + "] "
	if e.Step != "" {
		prefix += e.Step + ": "
	}
	if e.Cause == nil {
		return prefix + e.Message
	}
	return prefix + e.Message + ": " + e.Cause.Error()
}

func (e *OperationError) Unwrap() error { return e.Cause }

// NewValidationError reports a step whose input state is unusable, such as
// an aggregate step running without a dataset.
func NewValidationError(step, message string) *OperationError {
	return &OperationError{Type: ErrorTypeValidation, Step: step, Message: message}
}

func NewTimeoutError(step string, limit time.Duration) *OperationError {
	return &OperationError{
		Type:    ErrorTypeTimeout,
		Step:    step,
		Message: "step exceeded timeout of " + limit.String(),
		Cause:   context.DeadlineExceeded,
	}
}

// NewCancellationError is returned when the run context ends, usually on
// SIGINT or SIGTERM.
func NewCancellationError(step string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		Step:    step,
		Message: "operation was cancelled",
		Cause:   context.Canceled,
	}
}

func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeFatal, Message: message, Cause: cause}
}

// GetErrorType is "" for nil and execution for errors that are not an
// OperationError.
func GetErrorType(err error) ErrorType {
	var opErr *OperationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &opErr):
		return opErr.Type
	default:
		return ErrorTypeExecution
	}
}

// WrapError attributes err to step. An OperationError already in the
// chain is reused and gets step filled in when it had none.
func WrapError(err error, step string, message string) *OperationError {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		return &OperationError{Type: ErrorTypeExecution, Step: step, Message: message, Cause: err}
	}
	if opErr.Step == "" {
		opErr.Step = step
	}
	if message != "" {
		opErr.Message = fmt.Sprintf("%s: %s", message, opErr.Message)
	}
	return opErr
}
