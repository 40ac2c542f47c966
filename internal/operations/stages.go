package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/dataprocessing"
	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/exporter"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/files"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/infrastructure"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/validation"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func stageLogger(logger *slog.Logger, stageID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stageID))
}

func requireDataset(state *OperationState, stageID string) error {
	if state.Dataset == nil {
		return NewValidationError(stageID, "no dataset available")
	}
	return nil
}

// recordArtifact files an output under outcome in the run summary and metrics
func recordArtifact(ctx context.Context, state *OperationState, metrics *infrastructure.PipelineMetrics, path, outcome string) {
	name := filepath.Base(path)
	state.RecordArtifact(name, outcome)
	metrics.RecordArtifact(ctx, name, outcome)
}

// DiscoverStage finds the yearly exports in the input directories
type DiscoverStage struct {
	BaseStage
	discovery *files.Discovery
	validator *validation.FileValidator
	dirs      []string
	input     config.InputConfig
	logger    *slog.Logger
}

// NewDiscoverStage creates the discovery Step. dirs are the resolved input
// directories; input supplies years, file pattern and reader name.
func NewDiscoverStage(discovery *files.Discovery, validator *validation.FileValidator, dirs []string, input config.InputConfig, logger *slog.Logger) *DiscoverStage {
	return &DiscoverStage{
		BaseStage: NewBaseStage(StageIDDiscover, StageNameDiscover),
		discovery: discovery,
		validator: validator,
		dirs:      dirs,
		input:     input,
		logger:    stageLogger(logger, StageIDDiscover),
	}
}

// Execute populates state.Inputs. Finding no file is fatal.
func (s *DiscoverStage) Execute(ctx context.Context, state *OperationState) error {
	glob := strings.ReplaceAll(s.input.FilePattern, "%d", "*")
	for _, dir := range s.dirs {
		if err := s.validator.ValidateInputDirectory(dir, glob); err != nil {
			s.logger.WarnContext(ctx, "input directory unusable, skipping",
				slog.String("directory", dir),
				slog.String("error", err.Error()))
		}
	}

	inputs, err := s.discovery.FindYearFiles(s.dirs, s.input.Years, s.input.FilePattern)
	if err != nil {
		return apperrors.NewConfigError("invalid input file pattern", err)
	}

	if ignored, err := s.discovery.FindIgnored(s.dirs, s.input.Years, s.input.FilePattern); err == nil {
		for _, f := range ignored {
			s.logger.InfoContext(ctx, "file ignored, year not configured",
				slog.String("path", f.Path))
		}
	}

	if len(inputs) == 0 {
		return apperrors.NewInputError("no input file found", apperrors.ErrNoInputFiles).
			WithContext("dirs", s.dirs).
			WithContext("years", s.input.Years)
	}

	for _, in := range inputs {
		// The loader decides; a mismatch here only predicts a parse failure.
		if err := s.validator.ValidateReaderInput(in.Path, s.input.Reader); err != nil {
			s.logger.WarnContext(ctx, "input file may not parse with configured reader",
				slog.String("path", in.Path),
				slog.String("reader", s.input.Reader),
				slog.String("error", err.Error()))
		}
		s.logger.InfoContext(ctx, "input file found",
			slog.String("path", in.Path),
			slog.Int("year", in.Year))
	}

	state.Inputs = inputs
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("files", len(inputs))
	}
	return nil
}

// LoadStage parses the discovered files into one Dataset
type LoadStage struct {
	BaseStage
	loader *dataprocessing.Loader
}

// NewLoadStage creates the load Step, counting every file outcome in metrics
func NewLoadStage(loader *dataprocessing.Loader, metrics *infrastructure.PipelineMetrics) *LoadStage {
	loader.WithObserver(func(ctx context.Context, load domain.FileLoad) {
		status := "parsed"
		if load.Error != "" {
			status = "failed"
		}
		metrics.RecordFile(ctx, status, load.Rows)
	})
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		loader:    loader,
	}
}

// Execute loads state.Inputs into state.Dataset
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	ds, report, err := s.loader.Load(ctx, state.Inputs)
	state.Load = report
	if err != nil {
		return err
	}
	state.Dataset = ds
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("rows", report.Rows)
		st.SetMetadata("files_failed", report.FilesFailed)
	}
	return nil
}

// FilterStage keeps the rows of the configured years
type FilterStage struct {
	BaseStage
	filter  *dataprocessing.YearFilter
	metrics *infrastructure.PipelineMetrics
}

// NewFilterStage creates the year filter Step
func NewFilterStage(filter *dataprocessing.YearFilter, metrics *infrastructure.PipelineMetrics) *FilterStage {
	return &FilterStage{
		BaseStage: NewBaseStage(StageIDFilter, StageNameFilter),
		filter:    filter,
		metrics:   metrics,
	}
}

// Execute filters state.Dataset in place
func (s *FilterStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}

	report, err := s.filter.Apply(ctx, state.Dataset)
	if err != nil {
		return err
	}
	state.Filter = &report

	s.metrics.RecordDropped(ctx, "year", report.Dropped-report.Unparseable)
	s.metrics.RecordDropped(ctx, "unparseable_date", report.Unparseable)
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("kept", report.Kept)
		st.SetMetadata("dropped", report.Dropped)
	}
	return nil
}

// CleanStage coerces, range checks, imputes and normalizes
type CleanStage struct {
	BaseStage
	cleaner *dataprocessing.Cleaner
	metrics *infrastructure.PipelineMetrics
}

// NewCleanStage creates the cleaning Step
func NewCleanStage(cleaner *dataprocessing.Cleaner, metrics *infrastructure.PipelineMetrics) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean),
		cleaner:   cleaner,
		metrics:   metrics,
	}
}

// Execute cleans state.Dataset in place
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}

	report, err := s.cleaner.Clean(ctx, state.Dataset)
	if err != nil {
		return err
	}
	state.Cleaning = report

	for _, c := range report.Columns {
		if c.Filled > 0 {
			s.metrics.RecordImputed(ctx, c.Column, string(c.Strategy), c.Filled)
		}
	}
	return nil
}

// DeriveStage adds the computed columns
type DeriveStage struct {
	BaseStage
	logger *slog.Logger
}

// NewDeriveStage creates the derived-field Step
func NewDeriveStage(logger *slog.Logger) *DeriveStage {
	return &DeriveStage{
		BaseStage: NewBaseStage(StageIDDerive, StageNameDerive),
		logger:    stageLogger(logger, StageIDDerive),
	}
}

// Execute adds total_feridos when its inputs exist
func (s *DeriveStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}

	added, err := dataprocessing.AddInjuryTotal(ctx, state.Dataset, s.logger)
	if err != nil {
		return err
	}
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata(domain.ColInjuryTotal, added)
	}
	return nil
}

// SnapshotStage persists the cleaned Dataset
type SnapshotStage struct {
	BaseStage
	writer    *exporter.SnapshotWriter
	validator *validation.FileValidator
	path      string
	metrics   *infrastructure.PipelineMetrics
}

// NewSnapshotStage creates the snapshot Step
func NewSnapshotStage(writer *exporter.SnapshotWriter, validator *validation.FileValidator, path string, metrics *infrastructure.PipelineMetrics) *SnapshotStage {
	return &SnapshotStage{
		BaseStage: NewBaseStage(StageIDSnapshot, StageNameSnapshot),
		writer:    writer,
		validator: validator,
		path:      path,
		metrics:   metrics,
	}
}

// Execute writes the snapshot. The snapshot is the product of prepare, so
// any failure aborts the run.
func (s *SnapshotStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}
	if err := s.validator.ValidateOutputDirectory(filepath.Dir(s.path)); err != nil {
		return err
	}

	if err := s.writer.Write(ctx, s.path, state.Dataset); err != nil {
		recordArtifact(ctx, state, s.metrics, s.path, ArtifactFailed)
		return err
	}

	state.Codec = s.writer.Codec()
	recordArtifact(ctx, state, s.metrics, s.path, ArtifactWritten)
	return nil
}

// ExportTargets are the optional copies of the cleaned Dataset; empty paths
// are disabled.
type ExportTargets struct {
	CSVPath      string
	SQLitePath   string
	ReportPath   string
	SnapshotPath string
}

// ExportStage writes the legacy CSV, the SQLite copy and the run report
type ExportStage struct {
	BaseStage
	csv     *exporter.CSVWriter
	sqlite  *exporter.SQLiteExporter
	json    *exporter.JSONWriter
	targets ExportTargets
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewExportStage creates the export Step
func NewExportStage(csv *exporter.CSVWriter, sqlite *exporter.SQLiteExporter, json *exporter.JSONWriter, targets ExportTargets, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *ExportStage {
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport),
		csv:       csv,
		sqlite:    sqlite,
		json:      json,
		targets:   targets,
		metrics:   metrics,
		logger:    stageLogger(logger, StageIDExport),
	}
}

// Execute writes every enabled export. A failed export is logged and
// reported; it does not abort the run.
func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	t := s.targets
	if t.CSVPath == "" && t.SQLitePath == "" && t.ReportPath == "" {
		return fmt.Errorf("no export configured: %w", ErrSkipStage)
	}
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}

	if t.CSVPath != "" {
		s.finish(ctx, state, t.CSVPath, s.csv.WriteDataset(ctx, t.CSVPath, state.Dataset))
	}
	if t.SQLitePath != "" {
		s.finish(ctx, state, t.SQLitePath, s.sqlite.Export(ctx, t.SQLitePath, state.Dataset))
	}
	if t.ReportPath != "" {
		report := exporter.NewPrepareReport(infrastructure.GetTraceID(ctx))
		report.Load = state.Load
		report.Filter = state.Filter
		report.Cleaning = state.Cleaning
		report.Snapshot = t.SnapshotPath
		report.Codec = state.Codec
		s.finish(ctx, state, t.ReportPath, s.json.WriteJSON(ctx, t.ReportPath, report))
	}
	return nil
}

func (s *ExportStage) finish(ctx context.Context, state *OperationState, path string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		recordArtifact(ctx, state, s.metrics, path, ArtifactFailed)
		return
	}
	recordArtifact(ctx, state, s.metrics, path, ArtifactWritten)
}

// SourceStage reads the snapshot, rebuilding from the raw inputs when the
// snapshot is missing or unreadable
type SourceStage struct {
	BaseStage
	path    string
	rebuild []Step
	logger  *slog.Logger
}

// NewSourceStage creates the analyze source Step. rebuild runs in order
// against the same state when the snapshot cannot be read.
func NewSourceStage(path string, rebuild []Step, logger *slog.Logger) *SourceStage {
	return &SourceStage{
		BaseStage: NewBaseStage(StageIDSource, StageNameSource),
		path:      path,
		rebuild:   rebuild,
		logger:    stageLogger(logger, StageIDSource),
	}
}

// Execute populates state.Dataset
func (s *SourceStage) Execute(ctx context.Context, state *OperationState) error {
	ds, err := exporter.ReadSnapshot(ctx, s.path)
	if err == nil {
		state.Dataset = ds
		state.Source = SourceSnapshot
		s.logger.InfoContext(ctx, "snapshot loaded",
			slog.String("path", s.path),
			slog.Int("rows", ds.Len()),
			slog.Int("columns", len(ds.Names())))
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.WarnContext(ctx, "snapshot unavailable, rebuilding from raw inputs",
		slog.String("path", s.path),
		slog.String("error", err.Error()))

	for _, step := range s.rebuild {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("rebuild %s: %w", step.ID(), err)
		}
	}
	if state.Dataset == nil {
		return NewValidationError(s.ID(), "rebuild produced no dataset")
	}
	state.Source = SourceRebuild
	return nil
}

// AggregateStage computes the dashboard payloads and writes them as JSON
type AggregateStage struct {
	BaseStage
	aggregator *dataprocessing.Aggregator
	json       *exporter.JSONWriter
	validator  *validation.FileValidator
	paths      *config.Paths
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// NewAggregateStage creates the aggregate Step
func NewAggregateStage(aggregator *dataprocessing.Aggregator, json *exporter.JSONWriter, validator *validation.FileValidator, paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage:  NewBaseStage(StageIDAggregate, StageNameAggregate),
		aggregator: aggregator,
		json:       json,
		validator:  validator,
		paths:      paths,
		metrics:    metrics,
		logger:     stageLogger(logger, StageIDAggregate),
	}
}

// Execute writes every catalogue payload. Skipped and failed payloads are
// reported; neither aborts the run.
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}
	if err := s.validator.ValidateOutputDirectory(s.paths.DataDir); err != nil {
		s.logger.ErrorContext(ctx, "data directory unusable, payload writes will fail",
			slog.String("directory", s.paths.DataDir),
			slog.String("error", err.Error()))
	}

	state.Aggregate = s.aggregator.Build(ctx, state.Dataset)
	for _, art := range state.Aggregate {
		path := s.paths.ArtifactPath(art.File)
		if art.Skipped {
			recordArtifact(ctx, state, s.metrics, path, ArtifactSkipped)
			continue
		}
		if err := s.json.WriteJSON(ctx, path, art.Payload); err != nil {
			s.logger.ErrorContext(ctx, "payload write failed",
				slog.String("artifact", art.File),
				slog.String("error", err.Error()))
			recordArtifact(ctx, state, s.metrics, path, ArtifactFailed)
			continue
		}
		recordArtifact(ctx, state, s.metrics, path, ArtifactWritten)
	}
	return nil
}

// StatsStage writes the statistics document and prints the console summary
type StatsStage struct {
	BaseStage
	summarizer *dataprocessing.Summarizer
	path       string
	console    io.Writer
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
}

// NewStatsStage creates the statistics Step. A nil console disables the
// printed summary.
func NewStatsStage(summarizer *dataprocessing.Summarizer, path string, console io.Writer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *StatsStage {
	return &StatsStage{
		BaseStage:  NewBaseStage(StageIDStats, StageNameStats),
		summarizer: summarizer,
		path:       path,
		console:    console,
		metrics:    metrics,
		logger:     stageLogger(logger, StageIDStats),
	}
}

// Execute describes the statistics columns present in state.Dataset
func (s *StatsStage) Execute(ctx context.Context, state *OperationState) error {
	if err := requireDataset(state, s.ID()); err != nil {
		return err
	}

	state.Stats = dataprocessing.Describe(state.Dataset, dataprocessing.StatsColumns)
	if err := s.summarizer.WriteStats(ctx, s.path, state.Stats); err != nil {
		s.logger.ErrorContext(ctx, "statistics write failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		recordArtifact(ctx, state, s.metrics, s.path, ArtifactFailed)
	} else {
		recordArtifact(ctx, state, s.metrics, s.path, ArtifactWritten)
	}

	if s.console != nil && len(state.Stats) > 0 {
		fmt.Fprint(s.console, s.summarizer.Console(state.Stats))
	}
	return nil
}

// WorkbookStage writes the frequency payloads to one spreadsheet
type WorkbookStage struct {
	BaseStage
	writer  *exporter.WorkbookWriter
	path    string
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewWorkbookStage creates the workbook Step; an empty path disables it
func NewWorkbookStage(writer *exporter.WorkbookWriter, path string, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *WorkbookStage {
	return &WorkbookStage{
		BaseStage: NewBaseStage(StageIDWorkbook, StageNameWorkbook),
		writer:    writer,
		path:      path,
		metrics:   metrics,
		logger:    stageLogger(logger, StageIDWorkbook),
	}
}

// Execute collects the frequency payloads computed by the aggregate Step
func (s *WorkbookStage) Execute(ctx context.Context, state *OperationState) error {
	if s.path == "" {
		return fmt.Errorf("no workbook configured: %w", ErrSkipStage)
	}

	var tables []exporter.NamedFrequency
	for _, art := range state.Aggregate {
		if payload, ok := art.Payload.(domain.FrequencyPayload); ok && !art.Skipped {
			tables = append(tables, exporter.NamedFrequency{Name: art.File, Payload: payload})
		}
	}
	if len(tables) == 0 {
		return fmt.Errorf("no frequency payloads: %w", ErrSkipStage)
	}

	if err := s.writer.Write(ctx, s.path, tables); err != nil {
		s.logger.ErrorContext(ctx, "workbook write failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		recordArtifact(ctx, state, s.metrics, s.path, ArtifactFailed)
		return nil
	}
	recordArtifact(ctx, state, s.metrics, s.path, ArtifactWritten)
	return nil
}
