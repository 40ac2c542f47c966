package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// NamedFrequency is one frequency payload destined for its own sheet
type NamedFrequency struct {
	Name    string
	Payload domain.FrequencyPayload
}

// SheetName derives a sheet name from an artifact file name
func SheetName(file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// WorkbookWriter writes frequency aggregates as an Excel workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves one sheet per table with a label/count header row
func (w *WorkbookWriter) Write(ctx context.Context, path string, tables []NamedFrequency) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, table := range tables {
		sheet := SheetName(table.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.NewStorageError("failed to create sheet", err).WithContext("sheet", sheet)
		}
		if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"rotulo", "quantidade"}); err != nil {
			return errors.NewStorageError("failed to write sheet header", err).WithContext("sheet", sheet)
		}
		for i, label := range table.Payload.Labels {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return errors.NewStorageError("invalid cell reference", err)
			}
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{label, table.Payload.Data[i]}); err != nil {
				return errors.NewStorageError("failed to write sheet row", err).WithContext("sheet", sheet)
			}
		}
	}

	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return errors.NewStorageError("failed to remove default sheet", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create workbook directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))
	return nil
}
