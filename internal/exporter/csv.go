package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// CSVWriter exports a Dataset in the dialect of the source exports
type CSVWriter struct {
	options WriteOptions
	logger  *slog.Logger
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Comma     rune
	Encoding  encoding.Encoding
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// DefaultWriteOptions mirrors the PRF exports: ';' separated Latin-1
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Comma: ';', Encoding: charmap.ISO8859_1}
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(options WriteOptions, logger *slog.Logger) *CSVWriter {
	if options.Comma == 0 {
		options.Comma = ';'
	}
	if options.Encoding == nil {
		options.Encoding = charmap.ISO8859_1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{options: options, logger: logger}
}

// WriteDataset writes the header and every row of ds to path. Absent
// cells are empty fields; characters the encoding cannot represent are
// replaced.
func (w *CSVWriter) WriteDataset(ctx context.Context, path string, ds *domain.Dataset) error {
	stream, err := w.CreateStreamWriter(path, ds.Names())
	if err != nil {
		return err
	}

	columns := ds.Columns()
	record := make([]string, len(columns))
	for i := 0; i < ds.Len(); i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				stream.Close()
				return err
			}
		}
		for j, col := range columns {
			record[j] = col.String(i)
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err).WithContext("path", path)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to flush CSV export", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "CSV export written",
		slog.String("path", path),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(columns)))
	return nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file    *os.File
	encoder io.WriteCloser
	writer  *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	w.logger.Debug("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.Int("header_count", len(headers)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create directory", err).WithContext("path", filePath)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to create file", err).WithContext("path", filePath)
	}

	if w.options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, errors.NewStorageError("failed to write BOM", err).WithContext("path", filePath)
		}
	}

	encoder := transform.NewWriter(file, encoding.ReplaceUnsupported(w.options.Encoding.NewEncoder()))
	writer := csv.NewWriter(encoder)
	writer.Comma = w.options.Comma

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, errors.NewStorageError("failed to write headers", err).WithContext("path", filePath)
		}
	}

	return &StreamWriter{
		file:    file,
		encoder: encoder,
		writer:  writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.encoder.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
