package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func TestCSVReader_Latin1(t *testing.T) {
	dir := t.TempDir()
	path := writeLatin1(t, dir, "acidentes2024.csv",
		"data_inversa;dia_semana;uf;idade;latitude",
		"05/01/2024;Sábado;SP;34;-23,55",
		"06/01/2024;domingo;NA;;-22,90",
		"07/01/2024;segunda-feira;MG",
	)

	ds, err := NewCSVReader(DefaultReaderOptions()).Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"data_inversa", "dia_semana", "uf", "idade", "latitude"}, ds.Names())
	assert.Equal(t, []string{"Sábado", "domingo", "segunda-feira"}, textValues(t, ds, "dia_semana"))

	uf, _ := ds.Column("uf")
	assert.True(t, uf.IsAbsent(1), "NA is a null token")

	idade, _ := ds.Column("idade")
	assert.True(t, idade.IsAbsent(1))
	assert.True(t, idade.IsAbsent(2), "short rows are padded")

	assert.Equal(t, "-23,55", textValues(t, ds, "latitude")[0])
}

func TestCSVReader_Errors(t *testing.T) {
	dir := t.TempDir()
	reader := NewCSVReader(DefaultReaderOptions())

	t.Run("extra fields", func(t *testing.T) {
		path := writeLatin1(t, dir, "wide.csv", "a;b", "1;2;3")
		_, err := reader.Read(context.Background(), path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0644))
		_, err := reader.Read(context.Background(), path)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.Read(context.Background(), filepath.Join(dir, "nope.csv"))
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})
}

func TestCSVReader_UTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbfuf;causa_acidente\nSP;Ausência de reação\n"), 0644))

	ds, err := NewCSVReader(DefaultReaderOptions()).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"uf", "causa_acidente"}, ds.Names())
	assert.Equal(t, []string{"Ausência de reação"}, textValues(t, ds, "causa_acidente"))
}

func TestDedupeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"unique", []string{"a", "b"}, []string{"a", "b"}},
		{"repeated", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"blank", []string{"a", ""}, []string{"a", "Unnamed: 1"}},
		{"collision", []string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupeHeader(tt.header))
		})
	}
}

func TestDataFrameReader_MatchesCSVReader(t *testing.T) {
	path := writeLatin1(t, t.TempDir(), "acidentes2025.csv",
		"data_inversa;dia_semana;causa_acidente;mortos",
		"10/02/2025;Terça;Velocidade incompatível;1",
		"11/02/2025;quarta-feira;null;0",
	)

	ctx := context.Background()
	fromCSV, err := NewCSVReader(DefaultReaderOptions()).Read(ctx, path)
	require.NoError(t, err)
	fromFrame, err := NewDataFrameReader(DefaultReaderOptions()).Read(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, fromCSV.Names(), fromFrame.Names())
	assert.Equal(t, fromCSV.Len(), fromFrame.Len())
	for _, name := range fromCSV.Names() {
		a, _ := fromCSV.Column(name)
		b, _ := fromFrame.Column(name)
		assert.Equal(t, a.Valid, b.Valid, name)
		assert.Equal(t, textValues(t, fromCSV, name), textValues(t, fromFrame, name), name)
	}
}

func TestXLSXReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acidentes2024.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"uf", "fase_dia", "idade"},
		{"BA", "Pleno dia", "41"},
		{"PE", "Anoitecer"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewXLSXReader().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"uf", "fase_dia", "idade"}, ds.Names())
	assert.Equal(t, []string{"BA", "PE"}, textValues(t, ds, "uf"))

	idade, _ := ds.Column("idade")
	assert.False(t, idade.IsAbsent(0))
	assert.True(t, idade.IsAbsent(1))
}

func TestNewTabularReader(t *testing.T) {
	logger, buf := logBuffer()

	assert.IsType(t, &CSVReader{}, NewTabularReader("", DefaultReaderOptions(), logger))
	assert.IsType(t, &DataFrameReader{}, NewTabularReader("DataFrame", DefaultReaderOptions(), logger))
	assert.IsType(t, &XLSXReader{}, NewTabularReader("xlsx", DefaultReaderOptions(), logger))
	assert.Empty(t, buf.String())

	assert.IsType(t, &CSVReader{}, NewTabularReader("polars", DefaultReaderOptions(), logger))
	assert.Contains(t, buf.String(), "falling back to csv")
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "latin1", "ISO-8859-1", "windows-1252", "utf-8"} {
		_, err := LookupEncoding(name)
		assert.NoError(t, err, name)
	}
	_, err := LookupEncoding("ebcdic")
	assert.Error(t, err)
}

func TestLookupEncoding_AcceptsEveryConfiguredName(t *testing.T) {
	for _, name := range []string{"latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252", "utf-8", "utf8"} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Input.Encoding = name
			require.NoError(t, cfg.Validate())

			_, err := LookupEncoding(cfg.Input.Encoding)
			assert.NoError(t, err)
		})
	}
}

func TestNullTokensAreAbsent(t *testing.T) {
	ds := datasetFrom(t, []string{"c"}, []string{"#N/A"}, []string{"None"}, []string{"0"}, []string{"n/a"})
	col, _ := ds.Column("c")
	assert.Equal(t, []bool{false, false, true, false}, col.Valid)
	assert.Equal(t, 3, col.AbsentCount())
	assert.Equal(t, domain.KindText, col.Kind)
}
