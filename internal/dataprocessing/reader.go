package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// TabularReader parses one input file into a Dataset of text columns.
// Null tokens are already absent in the result; kind inference happens
// after concatenation.
type TabularReader interface {
	Read(ctx context.Context, path string) (*domain.Dataset, error)
}

// ReaderOptions are shared by every TabularReader implementation
type ReaderOptions struct {
	Delimiter rune
	Encoding  encoding.Encoding
}

// DefaultReaderOptions returns the PRF export dialect: ';' separated Latin-1
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{Delimiter: ';', Encoding: charmap.ISO8859_1}
}

// DefaultReaderName is used when no reader is configured or the name is unknown
const DefaultReaderName = "csv"

var readerFactories = map[string]func(ReaderOptions) TabularReader{
	"csv":       func(o ReaderOptions) TabularReader { return NewCSVReader(o) },
	"dataframe": func(o ReaderOptions) TabularReader { return NewDataFrameReader(o) },
	"xlsx":      func(o ReaderOptions) TabularReader { return NewXLSXReader() },
}

// ReaderNames lists the registered reader names
func ReaderNames() []string {
	names := make([]string, 0, len(readerFactories))
	for name := range readerFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewTabularReader selects a reader by name, falling back to csv
func NewTabularReader(name string, opts ReaderOptions, logger *slog.Logger) TabularReader {
	if logger == nil {
		logger = slog.Default()
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultReaderName
	}
	factory, ok := readerFactories[key]
	if !ok {
		logger.Warn("unknown reader, falling back to csv",
			slog.String("reader", name),
			slog.Any("available", ReaderNames()))
		factory = readerFactories[DefaultReaderName]
	}
	return factory(opts)
}

// tableBuilder accumulates raw string rows into text columns
type tableBuilder struct {
	columns []*domain.Column
}

func newTableBuilder(header []string) *tableBuilder {
	names := dedupeHeader(header)
	b := &tableBuilder{columns: make([]*domain.Column, len(names))}
	for i, name := range names {
		b.columns[i] = domain.NewTextColumn(name, 0)
	}
	return b
}

// appendRow adds one record. Short records are padded with absent values;
// records wider than the header are rejected.
func (b *tableBuilder) appendRow(line int, fields []string) error {
	if len(fields) > len(b.columns) {
		return fmt.Errorf("line %d: expected %d fields, saw %d", line, len(b.columns), len(fields))
	}
	for i, col := range b.columns {
		value := ""
		if i < len(fields) {
			value = fields[i]
		}
		present := !domain.IsNullToken(value)
		if !present {
			value = ""
		}
		col.Text = append(col.Text, value)
		col.Valid = append(col.Valid, present)
	}
	return nil
}

func (b *tableBuilder) dataset() (*domain.Dataset, error) {
	rows := 0
	if len(b.columns) > 0 {
		rows = b.columns[0].Len()
	}
	ds := domain.NewDataset(rows)
	for _, col := range b.columns {
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// dedupeHeader names blank headers "Unnamed: i" and suffixes repeated
// names with .1, .2 in order of appearance.
func dedupeHeader(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}
