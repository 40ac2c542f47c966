package exporter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/compress/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cleanedDataset is a small dataset shaped like the prepare output
func cleanedDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds := domain.NewDataset(3)

	date := domain.NewDateColumn(domain.ColDate, 3)
	date.SetDate(0, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	date.SetDate(1, time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC))
	date.SetDate(2, time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, ds.AddColumn(date))

	uf := domain.NewTextColumn(domain.ColState, 3)
	uf.SetText(0, "SP")
	uf.SetText(1, "Não Informado")
	uf.SetText(2, "RJ")
	require.NoError(t, ds.AddColumn(uf))

	idade := domain.NewNumberColumn(domain.ColAge, 3)
	idade.SetNumber(0, 34)
	idade.SetNumber(2, 61)
	require.NoError(t, ds.AddColumn(idade))

	lat := domain.NewTextColumn(domain.ColLatitude, 3)
	lat.SetText(0, "-23,5505")
	lat.SetText(1, "-22.906847")
	require.NoError(t, ds.AddColumn(lat))

	mortos := domain.NewNumberColumn(domain.ColDeaths, 3)
	mortos.SetNumber(0, 0)
	mortos.SetNumber(1, 2)
	mortos.SetNumber(2, 0)
	require.NoError(t, ds.AddColumn(mortos))
	return ds
}

func TestSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "acidentes_tratados.parquet")
	ds := cleanedDataset(t)
	ctx := context.Background()

	writer := NewSnapshotWriter("zstd", "snappy", quietLogger())
	require.NoError(t, writer.Write(ctx, path, ds))
	assert.NoFileExists(t, path+".tmp")

	got, err := ReadSnapshot(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, ds.Len(), got.Len())
	assert.Equal(t, ds.Names(), got.Names(), "column order survives")
	for _, want := range ds.Columns() {
		col, ok := got.Column(want.Name)
		require.True(t, ok)
		assert.Equal(t, want.Kind, col.Kind, want.Name)
		assert.Equal(t, want.Valid, col.Valid, want.Name)
		for i := 0; i < want.Len(); i++ {
			assert.Equal(t, want.String(i), col.String(i), "%s row %d", want.Name, i)
		}
	}

	lat, _ := got.Column(domain.ColLatitude)
	assert.Equal(t, domain.KindText, lat.Kind)
	assert.Equal(t, "-23,5505", lat.Text[0])
}

func TestSnapshot_CoordinatesAlwaysText(t *testing.T) {
	ds := domain.NewDataset(1)
	lon := domain.NewNumberColumn(domain.ColLongitude, 1)
	lon.SetNumber(0, -46.63)
	require.NoError(t, ds.AddColumn(lon))

	path := filepath.Join(t.TempDir(), "coords.parquet")
	require.NoError(t, NewSnapshotWriter("snappy", "snappy", quietLogger()).Write(context.Background(), path, ds))

	got, err := ReadSnapshot(context.Background(), path)
	require.NoError(t, err)
	col, _ := got.Column(domain.ColLongitude)
	assert.Equal(t, domain.KindText, col.Kind)
	assert.Equal(t, "-46.63", col.Text[0])
}

// brokenCodec fails every encode, like a codec missing from the runtime
type brokenCodec struct {
	snappy.Codec
}

func (brokenCodec) Encode(dst, src []byte) ([]byte, error) {
	return nil, errors.New("codec not available")
}

func TestSnapshotWriter_CodecProbe(t *testing.T) {
	tests := []struct {
		name       string
		candidates []compress.Codec
		want       string
	}{
		{"preferred works", []compress.Codec{&parquet.Zstd, &parquet.Snappy}, (&parquet.Zstd).String()},
		{"falls back", []compress.Codec{&brokenCodec{}, &parquet.Snappy}, (&parquet.Snappy).String()},
		{"uncompressed last", []compress.Codec{&brokenCodec{}, &brokenCodec{}}, (&parquet.Uncompressed).String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSnapshotWriter(tt.candidates, quietLogger())
			assert.Equal(t, tt.want, w.Codec())
		})
	}

	t.Run("fallback output is readable", func(t *testing.T) {
		w := newSnapshotWriter([]compress.Codec{&brokenCodec{}, &parquet.Snappy}, quietLogger())
		path := filepath.Join(t.TempDir(), "fallback.parquet")
		require.NoError(t, w.Write(context.Background(), path, cleanedDataset(t)))

		got, err := ReadSnapshot(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Len())
	})
}

func TestReadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadSnapshot(context.Background(), filepath.Join(dir, "missing.parquet"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	garbage := filepath.Join(dir, "garbage.parquet")
	require.NoError(t, os.WriteFile(garbage, []byte("not parquet"), 0644))
	_, err = ReadSnapshot(context.Background(), garbage)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(1), floorDiv(86400, secondsPerDay))
	assert.Equal(t, int64(-1), floorDiv(-1, secondsPerDay))
	assert.Equal(t, int64(-1), floorDiv(-86400, secondsPerDay))
}
