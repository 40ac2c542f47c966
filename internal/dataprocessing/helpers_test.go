package dataprocessing

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sharedtest "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/shared/testutil"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeLatin1 writes lines as a Latin-1 encoded file and returns its path
func writeLatin1(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	sharedtest.WriteLatin1(t, path, lines...)
	return path
}

// datasetFrom builds a text dataset from a header and rows; "" cells are absent
func datasetFrom(t *testing.T, header []string, rows ...[]string) *domain.Dataset {
	t.Helper()
	b := newTableBuilder(header)
	for i, row := range rows {
		require.NoError(t, b.appendRow(i+2, row))
	}
	ds, err := b.dataset()
	require.NoError(t, err)
	return ds
}

func textValues(t *testing.T, ds *domain.Dataset, name string) []string {
	t.Helper()
	col, ok := ds.Column(name)
	require.True(t, ok, "column %s missing", name)
	out := make([]string, col.Len())
	for i := range out {
		out[i] = col.String(i)
	}
	return out
}

func numberColumn(name string, values ...float64) *domain.Column {
	col := domain.NewNumberColumn(name, len(values))
	for i, v := range values {
		col.SetNumber(i, v)
	}
	return col
}

func logBuffer() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
