package exporter

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func TestCSVWriter_WriteDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "acidentes_tratados.csv")
	writer := NewCSVWriter(DefaultWriteOptions(), quietLogger())

	require.NoError(t, writer.WriteDataset(context.Background(), path, cleanedDataset(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(decoded)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "data_inversa;uf;idade;latitude;mortos", lines[0])
	assert.Equal(t, "2024-01-05;SP;34;-23,5505;0", lines[1])
	assert.Equal(t, "2025-07-19;Não Informado;;-22.906847;2", lines[2])
	assert.Contains(t, string(raw), "N\xe3o", "written as Latin-1")
}

func TestCSVWriter_ReplacesUnsupported(t *testing.T) {
	ds := domain.NewDataset(1)
	col := domain.NewTextColumn("causa_acidente", 1)
	col.SetText(0, "Reação → colisão")
	require.NoError(t, ds.AddColumn(col))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewCSVWriter(DefaultWriteOptions(), quietLogger()).WriteDataset(context.Background(), path, ds))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Rea\xe7\xe3o")
}

func TestCSVWriter_StorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := NewCSVWriter(DefaultWriteOptions(), quietLogger()).
		WriteDataset(context.Background(), filepath.Join(blocker, "out.csv"), cleanedDataset(t))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestJSONWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewJSONWriter(quietLogger())
	ctx := context.Background()

	t.Run("frequency payload", func(t *testing.T) {
		path := filepath.Join(dir, "data", "top_10_causas.json")
		payload := domain.FrequencyPayload{Labels: []string{"Não Informado", "<chuva>"}, Data: []int{3, 1}}
		require.NoError(t, writer.WriteJSON(ctx, path, payload))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{"labels":["Não Informado","<chuva>"],"data":[3,1]}`, string(content))
	})

	t.Run("empty payloads are arrays", func(t *testing.T) {
		path := filepath.Join(dir, "scatter.json")
		require.NoError(t, writer.WriteJSON(ctx, path, domain.ScatterPayload{Points: []domain.Point{}}))

		var decoded map[string][]interface{}
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.NotNil(t, decoded["points"])
	})

	t.Run("unwritable path", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		err := writer.WriteJSON(ctx, filepath.Join(blocker, "x.json"), domain.FrequencyPayload{})
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	})
}

func TestSQLiteExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acidentes.db")
	exporter := NewSQLiteExporter(quietLogger())
	ctx := context.Background()

	require.NoError(t, exporter.Export(ctx, path, cleanedDataset(t)))
	// a second export replaces the table
	require.NoError(t, exporter.Export(ctx, path, cleanedDataset(t)))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM acidentes`).Scan(&rows))
	assert.Equal(t, 3, rows)

	var absentAges int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM acidentes WHERE idade IS NULL`).Scan(&absentAges))
	assert.Equal(t, 1, absentAges)

	var deaths float64
	require.NoError(t, db.QueryRow(`SELECT SUM(mortos) FROM acidentes`).Scan(&deaths))
	assert.Equal(t, 2.0, deaths)

	var date string
	require.NoError(t, db.QueryRow(`SELECT data_inversa FROM acidentes WHERE uf = 'SP'`).Scan(&date))
	assert.Equal(t, "2024-01-05", date)
}

func TestWorkbookWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agregados.xlsx")
	tables := []NamedFrequency{
		{Name: "top_10_causas.json", Payload: domain.FrequencyPayload{Labels: []string{"Chuva", "Sono"}, Data: []int{5, 2}}},
		{Name: "fase_dia.json", Payload: domain.FrequencyPayload{Labels: []string{"Pleno dia"}, Data: []int{9}}},
	}
	require.NoError(t, NewWorkbookWriter(quietLogger()).Write(context.Background(), path, tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"top_10_causas", "fase_dia"}, f.GetSheetList())
	rows, err := f.GetRows("top_10_causas")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"rotulo", "quantidade"}, {"Chuva", "5"}, {"Sono", "2"}}, rows)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "proporcao_uf", SheetName("dashboard/data/proporcao_uf.json"))
	assert.Len(t, SheetName(strings.Repeat("x", 40)+".json"), maxSheetName)
}
