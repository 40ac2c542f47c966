package dataprocessing

import (
	"context"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// DataFrameReader loads an export with gota's dataframe CSV loader.
// Every column is read as string so kind inference stays with the Loader.
type DataFrameReader struct {
	opts ReaderOptions
}

// NewDataFrameReader creates a gota backed reader
func NewDataFrameReader(opts ReaderOptions) *DataFrameReader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	return &DataFrameReader{opts: opts}
}

// Read parses path into a Dataset
func (r *DataFrameReader) Read(ctx context.Context, path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	df := dataframe.ReadCSV(decodingReader(file, r.opts.Encoding),
		dataframe.WithDelimiter(r.opts.Delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(domain.NullTokens),
	)
	if df.Err != nil {
		return nil, errors.NewParsingError("failed to load dataframe", df.Err).WithContext("path", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := df.Names()
	builder := newTableBuilder(names)
	for i, name := range names {
		s := df.Col(name)
		col := builder.columns[i]
		col.Text = s.Records()
		col.Valid = make([]bool, len(col.Text))
		for row, isNaN := range s.IsNaN() {
			if isNaN {
				col.Text[row] = ""
				continue
			}
			col.Valid[row] = true
		}
	}
	return builder.dataset()
}
