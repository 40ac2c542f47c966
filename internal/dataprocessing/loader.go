package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// FileObserver is notified of each file outcome, e.g. to record metrics
type FileObserver func(ctx context.Context, load domain.FileLoad)

// Loader parses the discovered exports and stacks them into one Dataset
type Loader struct {
	reader   TabularReader
	workers  int
	logger   *slog.Logger
	observer FileObserver
}

// NewLoader creates a loader parsing up to workers files at once
func NewLoader(reader TabularReader, workers int, logger *slog.Logger) *Loader {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{reader: reader, workers: workers, logger: logger}
}

// WithObserver registers a per-file callback
func (l *Loader) WithObserver(fn FileObserver) *Loader {
	l.observer = fn
	return l
}

// Load parses every file and concatenates the parsed ones in input order.
// A file that fails is logged and left out; if none parse the run cannot
// continue and ErrNoParsableFiles is returned.
func (l *Loader) Load(ctx context.Context, files []domain.InputFile) (*domain.Dataset, *domain.LoadReport, error) {
	start := time.Now()
	if len(files) == 0 {
		return nil, nil, errors.NewInputError("nothing to load", errors.ErrNoInputFiles)
	}

	parts := make([]*domain.Dataset, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, file := range files {
		g.Go(func() error {
			ds, err := l.reader.Read(gctx, file.Path)
			if err != nil {
				// A cancelled run is the only error that stops the group
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			parts[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &domain.LoadReport{}
	var parsed []*domain.Dataset
	for i, file := range files {
		load := domain.FileLoad{Path: file.Path, Year: file.Year}
		if err := failures[i]; err != nil {
			load.Error = err.Error()
			report.FilesFailed++
			l.logger.ErrorContext(ctx, "failed to parse input file, skipping",
				slog.String("path", file.Path),
				slog.Int("year", file.Year),
				slog.String("error", err.Error()))
		} else {
			load.Rows = parts[i].Len()
			report.FilesParsed++
			parsed = append(parsed, parts[i])
			l.logger.InfoContext(ctx, "input file parsed",
				slog.String("path", file.Path),
				slog.Int("year", file.Year),
				slog.Int("rows", load.Rows),
				slog.Int("columns", len(parts[i].Names())))
		}
		report.Files = append(report.Files, load)
		if l.observer != nil {
			l.observer(ctx, load)
		}
	}

	if len(parsed) == 0 {
		return nil, report, errors.NewInputError("no input file could be parsed", errors.ErrNoParsableFiles).
			WithContext("files", len(files))
	}

	ds := domain.Concat(parsed...)
	numeric := InferKinds(ds)

	report.Rows = ds.Len()
	report.Columns = len(ds.Names())
	report.Duration = time.Since(start)

	l.logger.InfoContext(ctx, "input files loaded",
		slog.Int("files_parsed", report.FilesParsed),
		slog.Int("files_failed", report.FilesFailed),
		slog.Int("rows", report.Rows),
		slog.Int("columns", report.Columns),
		slog.Int("numeric_columns", len(numeric)),
		slog.Duration("duration", report.Duration))

	return ds, report, nil
}
