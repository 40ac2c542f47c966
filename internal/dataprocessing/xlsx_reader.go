package dataprocessing

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// XLSXReader reads the first sheet of a workbook export.
// The first row is the header; trailing empty cells are absent values.
type XLSXReader struct{}

// NewXLSXReader creates a spreadsheet reader
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Read parses the first sheet of path
func (r *XLSXReader) Read(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err).
			WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("input file is empty", nil).WithContext("path", path)
	}

	builder := newTableBuilder(rows[0])
	for i, row := range rows[1:] {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := builder.appendRow(i+2, row); err != nil {
			return nil, errors.NewParsingError("malformed row", err).WithContext("path", path)
		}
	}
	return builder.dataset()
}
