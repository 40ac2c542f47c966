package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// ctxCheckInterval is how many records are read between context checks
const ctxCheckInterval = 10000

// CSVReader streams a delimited export through the configured decoder
type CSVReader struct {
	opts ReaderOptions
}

// NewCSVReader creates the default reader
func NewCSVReader(opts ReaderOptions) *CSVReader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	return &CSVReader{opts: opts}
}

// Read parses path. The first record is the header.
func (r *CSVReader) Read(ctx context.Context, path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	return r.parse(ctx, decodingReader(file, r.opts.Encoding), path)
}

func (r *CSVReader) parse(ctx context.Context, src io.Reader, path string) (*domain.Dataset, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("input file is empty", nil).WithContext("path", path)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header", err).WithContext("path", path)
	}
	builder := newTableBuilder(append([]string(nil), header...))

	for n := 1; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("malformed record", err).WithContext("path", path)
		}

		line, _ := reader.FieldPos(0)
		if err := builder.appendRow(line, record); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("malformed record in %s", path), err).
				WithContext("path", path)
		}
	}

	return builder.dataset()
}
