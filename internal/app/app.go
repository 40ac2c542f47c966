package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/infrastructure"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/operations"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts"
)

// ShutdownTimeout bounds the telemetry flush on exit
const ShutdownTimeout = 10 * time.Second

// Options carries what a command resolved from its flags
type Options struct {
	ConfigFile string
	BaseDir    string
	// Apply overlays flag values on the loaded configuration before it is
	// validated a second time.
	Apply func(*config.Config)
	// Console receives the run summary and the printed statistics.
	Console io.Writer
}

// Application represents one configured pipeline run
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Console   io.Writer
}

// NewApplication loads the configuration, resolves paths and starts logging
// and telemetry. The caller must Stop the application.
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Apply != nil {
		opts.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	paths, err := config.GetPaths(cfg, opts.BaseDir)
	if err != nil {
		return nil, errors.NewConfigError("failed to resolve paths", err)
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths.Metrics, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.Any("version", contracts.GetVersionInfo()),
		slog.String("base_dir", paths.BaseDir),
		slog.Any("years", cfg.Input.Years))

	return &Application{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		Console:   console,
	}, nil
}

// Manager builds the step manager for command
func (a *Application) Manager(command string) (*operations.Manager, error) {
	tracer := operations.NewOperationTracer(a.Telemetry)
	switch command {
	case operations.CommandPrepare:
		return operations.NewPrepareManager(a.Config, a.Paths, tracer, a.Logger)
	case operations.CommandAnalyze:
		if err := a.Paths.EnsureDirectories(); err != nil {
			return nil, errors.NewStorageError("failed to create output directories", err)
		}
		return operations.NewAnalyzeManager(a.Config, a.Paths, tracer, a.Console, a.Logger)
	default:
		return nil, errors.NewAppValidationError(fmt.Sprintf("unknown command %q", command))
	}
}

// Run executes command until it finishes or the process is interrupted.
// The run trace ID doubles as the operation ID.
func (a *Application) Run(ctx context.Context, command string) (*operations.OperationResponse, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = infrastructure.EnsureTraceID(ctx)
	manager, err := a.Manager(command)
	if err != nil {
		return nil, err
	}

	state := operations.NewOperationState(infrastructure.GetTraceID(ctx), command)
	resp, err := manager.Execute(ctx, state)
	a.printSummary(resp)
	return resp, err
}

func (a *Application) printSummary(resp *operations.OperationResponse) {
	if resp == nil {
		return
	}
	fmt.Fprintf(a.Console, "%s: %s em %s\n", resp.Command, resp.Status, resp.Duration.Round(time.Millisecond))
	for _, s := range resp.Steps {
		line := fmt.Sprintf("  %-10s %s", s.ID, s.Status)
		if s.Message != "" {
			line += " (" + s.Message + ")"
		}
		fmt.Fprintln(a.Console, line)
	}
	if n := len(resp.Artifacts.Written) + len(resp.Artifacts.Skipped) + len(resp.Artifacts.Failed); n > 0 {
		fmt.Fprintf(a.Console, "artefatos: %d gravados, %d ignorados, %d com falha\n",
			len(resp.Artifacts.Written), len(resp.Artifacts.Skipped), len(resp.Artifacts.Failed))
	}
}

// Stop flushes telemetry and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	var firstErr error
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			a.Logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
			firstErr = err
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
