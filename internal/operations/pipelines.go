package operations

import (
	"io"
	"log/slog"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/dataprocessing"
	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/exporter"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/files"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/validation"
)

// rawSteps builds the steps that turn the yearly exports into a cleaned
// Dataset: discover, load, filter, clean, derive.
func rawSteps(cfg *config.Config, paths *config.Paths, tracer *OperationTracer, validator *validation.FileValidator, logger *slog.Logger) ([]Step, error) {
	enc, err := dataprocessing.LookupEncoding(cfg.Input.Encoding)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid input encoding", err)
	}
	opts := dataprocessing.ReaderOptions{Delimiter: cfg.Comma(), Encoding: enc}
	reader := dataprocessing.NewTabularReader(cfg.Input.Reader, opts, logger)
	metrics := tracer.Metrics()

	return []Step{
		NewDiscoverStage(files.NewDiscovery(paths.BaseDir), validator, paths.InputDirs, cfg.Input, logger),
		NewLoadStage(dataprocessing.NewLoader(reader, cfg.Input.Workers, logger), metrics),
		NewFilterStage(dataprocessing.NewYearFilter(cfg.Input.DateColumn, cfg.Input.Years, logger), metrics),
		NewCleanStage(dataprocessing.NewCleaner(logger), metrics),
		NewDeriveStage(logger),
	}, nil
}

// NewPrepareManager wires the prepare pipeline: raw steps, snapshot, exports
func NewPrepareManager(cfg *config.Config, paths *config.Paths, tracer *OperationTracer, logger *slog.Logger) (*Manager, error) {
	if tracer == nil {
		tracer = NewOperationTracer(nil)
	}
	validator := validation.NewFileValidator(logger)
	steps, err := rawSteps(cfg, paths, tracer, validator, logger)
	if err != nil {
		return nil, err
	}

	metrics := tracer.Metrics()
	steps = append(steps,
		NewSnapshotStage(exporter.NewSnapshotWriter(cfg.Snapshot.Codec, cfg.Snapshot.FallbackCodec, logger),
			validator, paths.Snapshot, metrics),
		NewExportStage(
			exporter.NewCSVWriter(exporter.WriteOptions{Comma: cfg.Comma()}, logger),
			exporter.NewSQLiteExporter(logger),
			exporter.NewJSONWriter(logger),
			ExportTargets{
				CSVPath:      paths.LegacyCSV,
				SQLitePath:   paths.SQLiteFile,
				ReportPath:   paths.ReportFile,
				SnapshotPath: paths.Snapshot,
			},
			metrics, logger),
	)
	return newManagerWith(steps, tracer, logger)
}

// NewAnalyzeManager wires the analyze pipeline: snapshot source with a raw
// rebuild fallback, a second year filter, aggregates, statistics and
// the optional workbook. console receives the printed summary.
func NewAnalyzeManager(cfg *config.Config, paths *config.Paths, tracer *OperationTracer, console io.Writer, logger *slog.Logger) (*Manager, error) {
	if tracer == nil {
		tracer = NewOperationTracer(nil)
	}
	validator := validation.NewFileValidator(logger)
	rebuild, err := rawSteps(cfg, paths, tracer, validator, logger)
	if err != nil {
		return nil, err
	}

	metrics := tracer.Metrics()
	steps := []Step{
		NewSourceStage(paths.Snapshot, rebuild, logger),
		NewFilterStage(dataprocessing.NewYearFilter(cfg.Input.DateColumn, cfg.Input.Years, logger), metrics),
		NewAggregateStage(dataprocessing.NewAggregator(cfg.Output.SampleCap, cfg.Output.SampleSeed, logger),
			exporter.NewJSONWriter(logger), validator, paths, metrics, logger),
		NewStatsStage(dataprocessing.NewSummarizer(logger), paths.StatsFile, console, metrics, logger),
		NewWorkbookStage(exporter.NewWorkbookWriter(logger), paths.Workbook, metrics, logger),
	}
	return newManagerWith(steps, tracer, logger)
}

func newManagerWith(steps []Step, tracer *OperationTracer, logger *slog.Logger) (*Manager, error) {
	manager := NewManager(nil, nil, tracer, logger)
	for _, step := range steps {
		if err := manager.RegisterStage(step); err != nil {
			return nil, err
		}
	}
	return manager, nil
}
