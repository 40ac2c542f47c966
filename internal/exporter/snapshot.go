package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// Snapshot file metadata keys
const (
	MetaColumns = "acidentes.columns"
	MetaFormat  = "acidentes.format"
)

const (
	snapshotSchemaName = "acidentes"
	snapshotBatchSize  = 1024
	secondsPerDay      = 24 * 60 * 60
)

// Codecs maps configuration names to parquet compression codecs
var Codecs = map[string]compress.Codec{
	"zstd":         &parquet.Zstd,
	"snappy":       &parquet.Snappy,
	"gzip":         &parquet.Gzip,
	"uncompressed": &parquet.Uncompressed,
}

var probePayload = bytes.Repeat([]byte("data_inversa;dia_semana;causa_acidente;uf\n"), 32)

// snapshotColumn is the persisted description of one column
type snapshotColumn struct {
	Name string            `json:"name"`
	Kind domain.ColumnKind `json:"kind"`
}

// SnapshotWriter persists a cleaned Dataset as one Parquet file using the
// first codec that passes the capability probe.
type SnapshotWriter struct {
	codec  compress.Codec
	logger *slog.Logger
}

// NewSnapshotWriter probes the preferred codec, then the fallback, then
// uncompressed output, and keeps the first one that works for the run.
func NewSnapshotWriter(preferred, fallback string, logger *slog.Logger) *SnapshotWriter {
	var candidates []compress.Codec
	for _, name := range []string{preferred, fallback} {
		if codec, ok := Codecs[name]; ok {
			candidates = append(candidates, codec)
		}
	}
	return newSnapshotWriter(candidates, logger)
}

func newSnapshotWriter(candidates []compress.Codec, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &SnapshotWriter{codec: &parquet.Uncompressed, logger: logger}
	for _, codec := range candidates {
		if err := probeCodec(codec); err != nil {
			logger.Debug("snapshot codec unavailable, trying next",
				slog.String("codec", codec.String()),
				slog.String("error", err.Error()))
			continue
		}
		w.codec = codec
		break
	}
	logger.Debug("snapshot codec selected", slog.String("codec", w.codec.String()))
	return w
}

// probeCodec round-trips a small payload through codec
func probeCodec(codec compress.Codec) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("codec panicked: %v", r)
		}
	}()
	encoded, err := codec.Encode(nil, probePayload)
	if err != nil {
		return err
	}
	decoded, err := codec.Decode(nil, encoded)
	if err != nil {
		return err
	}
	if !bytes.Equal(decoded, probePayload) {
		return fmt.Errorf("round trip mismatch")
	}
	return nil
}

// Codec returns the name of the selected codec
func (w *SnapshotWriter) Codec() string {
	return w.codec.String()
}

// snapshotKind is the persisted kind of col; coordinates are always text
func snapshotKind(col *domain.Column) domain.ColumnKind {
	if slices.Contains(domain.CoordinateColumns, col.Name) {
		return domain.KindText
	}
	return col.Kind
}

func snapshotSchema(columns []snapshotColumn) *parquet.Schema {
	group := parquet.Group{}
	for _, c := range columns {
		switch c.Kind {
		case domain.KindNumber:
			group[c.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		case domain.KindDate:
			group[c.Name] = parquet.Optional(parquet.Date())
		default:
			group[c.Name] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema(snapshotSchemaName, group)
}

// leafIndexes maps each column, in dataset order, to its parquet column index
func leafIndexes(schema *parquet.Schema, columns []snapshotColumn) ([]int, error) {
	indexes := make([]int, len(columns))
	for i, c := range columns {
		leaf, ok := schema.Lookup(c.Name)
		if !ok {
			return nil, fmt.Errorf("column %s not in snapshot schema", c.Name)
		}
		indexes[i] = leaf.ColumnIndex
	}
	return indexes, nil
}

// Write persists ds to path. The file is written next to path and renamed
// into place once complete.
func (w *SnapshotWriter) Write(ctx context.Context, path string, ds *domain.Dataset) error {
	start := time.Now()
	columns := make([]snapshotColumn, 0, len(ds.Columns()))
	for _, col := range ds.Columns() {
		columns = append(columns, snapshotColumn{Name: col.Name, Kind: snapshotKind(col)})
	}
	meta, err := json.Marshal(columns)
	if err != nil {
		return errors.NewStorageError("failed to encode snapshot metadata", err)
	}

	schema := snapshotSchema(columns)
	indexes, err := leafIndexes(schema, columns)
	if err != nil {
		return errors.NewStorageError("failed to build snapshot schema", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create snapshot directory", err).WithContext("path", path)
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.NewStorageError("failed to create snapshot file", err).WithContext("path", path)
	}

	writer := parquet.NewWriter(file, schema,
		parquet.Compression(w.codec),
		parquet.KeyValueMetadata(MetaColumns, string(meta)),
		parquet.KeyValueMetadata(MetaFormat, contracts.DataFormatVersion),
	)

	if err := w.writeRows(ctx, writer, ds, columns, indexes); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.NewStorageError("failed to write snapshot rows", err).WithContext("path", path)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.NewStorageError("failed to finalize snapshot", err).WithContext("path", path)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return errors.NewStorageError("failed to close snapshot", err).WithContext("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.NewStorageError("failed to move snapshot into place", err).WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "snapshot written",
		slog.String("path", path),
		slog.String("codec", w.Codec()),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(columns)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (w *SnapshotWriter) writeRows(ctx context.Context, writer *parquet.Writer, ds *domain.Dataset, columns []snapshotColumn, indexes []int) error {
	cols := ds.Columns()
	batch := make([]parquet.Row, 0, snapshotBatchSize)
	for i := 0; i < ds.Len(); i++ {
		row := make(parquet.Row, len(cols))
		for j, col := range cols {
			row[indexes[j]] = cellValue(col, columns[j].Kind, i, indexes[j])
		}
		batch = append(batch, row)

		if len(batch) == snapshotBatchSize || i == ds.Len()-1 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := writer.WriteRows(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	return nil
}

func cellValue(col *domain.Column, kind domain.ColumnKind, i, columnIndex int) parquet.Value {
	if col.IsAbsent(i) {
		return parquet.NullValue().Level(0, 0, columnIndex)
	}
	var v parquet.Value
	switch {
	case kind == domain.KindNumber:
		v = parquet.DoubleValue(col.Num[i])
	case kind == domain.KindDate:
		v = parquet.Int32Value(int32(floorDiv(col.Date[i].Unix(), secondsPerDay)))
	default:
		v = parquet.ByteArrayValue([]byte(col.String(i)))
	}
	return v.Level(0, 1, columnIndex)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ReadSnapshot restores the Dataset written by SnapshotWriter.Write
func ReadSnapshot(ctx context.Context, path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("snapshot " + path)
		}
		return nil, errors.NewStorageError("failed to open snapshot", err).WithContext("path", path)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewStorageError("failed to stat snapshot", err).WithContext("path", path)
	}
	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, errors.NewParsingError("failed to open snapshot", err).WithContext("path", path)
	}

	if format, _ := pf.Lookup(MetaFormat); format != contracts.DataFormatVersion {
		return nil, errors.NewParsingError(fmt.Sprintf("unsupported snapshot format %q", format), nil).
			WithContext("path", path)
	}
	raw, ok := pf.Lookup(MetaColumns)
	if !ok {
		return nil, errors.NewParsingError("snapshot has no column metadata", nil).WithContext("path", path)
	}
	var columns []snapshotColumn
	if err := json.Unmarshal([]byte(raw), &columns); err != nil {
		return nil, errors.NewParsingError("invalid snapshot column metadata", err).WithContext("path", path)
	}

	indexes, err := leafIndexes(pf.Schema(), columns)
	if err != nil {
		return nil, errors.NewParsingError("snapshot schema mismatch", err).WithContext("path", path)
	}
	byLeaf := make(map[int]int, len(indexes))
	for j, idx := range indexes {
		byLeaf[idx] = j
	}

	rows := int(pf.NumRows())
	cols := make([]*domain.Column, len(columns))
	for j, c := range columns {
		switch c.Kind {
		case domain.KindNumber:
			cols[j] = domain.NewNumberColumn(c.Name, rows)
		case domain.KindDate:
			cols[j] = domain.NewDateColumn(c.Name, rows)
		default:
			cols[j] = domain.NewTextColumn(c.Name, rows)
		}
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	buf := make([]parquet.Row, snapshotBatchSize)
	next := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			if next >= rows {
				return nil, errors.NewParsingError("snapshot holds more rows than declared", nil).WithContext("path", path)
			}
			for _, v := range row {
				j, ok := byLeaf[v.Column()]
				if !ok || v.IsNull() {
					continue
				}
				setCell(cols[j], next, v)
			}
			next++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read snapshot rows", err).WithContext("path", path)
		}
	}

	if next != rows {
		return nil, errors.NewParsingError(fmt.Sprintf("snapshot declares %d rows, read %d", rows, next), nil).
			WithContext("path", path)
	}

	ds := domain.NewDataset(rows)
	for _, col := range cols {
		if err := ds.AddColumn(col); err != nil {
			return nil, errors.NewParsingError("snapshot column length mismatch", err).WithContext("path", path)
		}
	}
	return ds, nil
}

func setCell(col *domain.Column, i int, v parquet.Value) {
	switch col.Kind {
	case domain.KindNumber:
		col.SetNumber(i, v.Double())
	case domain.KindDate:
		col.SetDate(i, time.Unix(int64(v.Int32())*secondsPerDay, 0).UTC())
	default:
		col.SetText(i, string(v.ByteArray()))
	}
}
