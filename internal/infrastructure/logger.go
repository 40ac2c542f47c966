package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
)

// logState is the process-wide logger and the log file it may own.
type logState struct {
	mu     sync.Mutex
	once   sync.Once
	logger *slog.Logger
	file   *os.File
}

var logs logState

// InitializeLogger builds the process logger from cfg and installs it as
// the slog default. Later calls return the first logger unchanged.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	logs.once.Do(func() {
		var logger *slog.Logger
		logger, err = createLogger(cfg, os.Stdout)
		if err != nil {
			return
		}
		logs.mu.Lock()
		logs.logger = logger
		logs.mu.Unlock()
		slog.SetDefault(logger)
	})
	return GetLogger(), err
}

// GetLogger falls back to slog.Default before InitializeLogger ran.
func GetLogger() *slog.Logger {
	logs.mu.Lock()
	defer logs.mu.Unlock()
	if logs.logger == nil {
		return slog.Default()
	}
	return logs.logger
}

func createLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	out, err := logWriter(cfg, console)
	if err != nil {
		return nil, err
	}

	level := levelFromName(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}

	var h slog.Handler = slog.NewJSONHandler(out, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(traceHandler{next: h}), nil
}

// logWriter resolves logging.output: console, file or both.
func logWriter(cfg config.LoggingConfig, console io.Writer) (io.Writer, error) {
	output := strings.ToLower(cfg.Output)
	if output != "file" && output != "both" {
		return console, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), config.DefaultDirPermission); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", cfg.FilePath, err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	logs.mu.Lock()
	logs.file = f
	logs.mu.Unlock()

	if output == "both" {
		return io.MultiWriter(console, f), nil
	}
	return f, nil
}

// levelFromName accepts the slog level names plus "warning". Anything
// else logs at info.
func levelFromName(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// traceHandler stamps every record logged with a run context with its
// trace_id.
type traceHandler struct {
	next slog.Handler
}

func (h traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.next.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{next: h.next.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{next: h.next.WithGroup(name)}
}

// CloseLogFile releases the log file opened for the "file" and "both"
// outputs. Safe to call more than once.
func CloseLogFile() error {
	logs.mu.Lock()
	defer logs.mu.Unlock()
	if logs.file == nil {
		return nil
	}
	err := logs.file.Close()
	logs.file = nil
	return err
}

// ResetLoggerForTesting lets a test initialize the logger again.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	logs.mu.Lock()
	logs.logger = nil
	logs.mu.Unlock()
	logs.once = sync.Once{}
}
