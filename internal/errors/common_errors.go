package errors

import (
	"errors"
	"log/slog"
	"sort"
)

// ErrorType classifies an AppError. Steps use it to tell input problems
// (abort the run) from storage problems on optional outputs (log and go on).
type ErrorType string

const (
	ErrTypeInput      ErrorType = "INPUT"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

var (
	ErrNoInputFiles    = errors.New("no input files found for the configured years")
	ErrNoParsableFiles = errors.New("no input file could be parsed")
)

// AppError is a typed error with optional key/value details such as the
// path of the file being read or written.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	msg := "[" + string(e.Type) + "] " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext records a detail and returns e for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = map[string]interface{}{}
	}
	e.Context[key] = value
	return e
}

// LogValue renders the error as a group so details reach the log as
// fields instead of being lost in the message.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(e.Type)),
		slog.String("msg", e.Message),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Context[k]))
	}
	return slog.GroupValue(attrs...)
}

func newError(t ErrorType, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, Cause: cause}
}

// NewInputError reports missing or unusable yearly exports.
func NewInputError(message string, cause error) *AppError {
	return newError(ErrTypeInput, message, cause)
}

func NewParsingError(message string, cause error) *AppError {
	return newError(ErrTypeParsing, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return newError(ErrTypeStorage, message, cause)
}

func NewAppValidationError(message string) *AppError {
	return newError(ErrTypeValidation, message, nil)
}

// NewNotFoundError names what was looked for, e.g. "snapshot x.parquet".
func NewNotFoundError(what string) *AppError {
	return newError(ErrTypeNotFound, what+" not found", nil)
}

func NewConfigError(message string, cause error) *AppError {
	return newError(ErrTypeConfig, message, cause)
}

// IsType reports whether any AppError in err's chain has type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
