package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
)

// JSONWriter writes dashboard payloads. Non-ASCII text is kept as is.
type JSONWriter struct {
	logger *slog.Logger
}

// NewJSONWriter creates a payload writer
func NewJSONWriter(logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger}
}

// WriteJSON encodes payload to path, creating the parent directory
func (w *JSONWriter) WriteJSON(ctx context.Context, path string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err).WithContext("path", path)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return errors.NewStorageError("failed to encode JSON payload", err).WithContext("path", path)
	}

	if err := os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), 0644); err != nil {
		return errors.NewStorageError("failed to write JSON payload", err).WithContext("path", path)
	}

	w.logger.DebugContext(ctx, "payload written",
		slog.String("path", path),
		slog.Int("bytes", buf.Len()))
	return nil
}
