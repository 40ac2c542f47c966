package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"05/01/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"5/1/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"05-01-2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"05/01/2024 13:45:00", time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC), true},
		{"31/02/2024", time.Time{}, false},
		{"ontem", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEventDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestYearFilter_Apply(t *testing.T) {
	ds := datasetFrom(t,
		[]string{"data_inversa", "uf"},
		[]string{"01/01/2023", "SP"},
		[]string{"15/06/2024", "RJ"},
		[]string{"2025-12-31", "MG"},
		[]string{"sem data", "BA"},
		[]string{"", "PE"},
	)

	report, err := NewYearFilter(domain.ColDate, []int{2025, 2024}, quietLogger()).Apply(context.Background(), ds)
	require.NoError(t, err)

	assert.True(t, report.Applied)
	assert.Equal(t, []int{2024, 2025}, report.Years)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 3, report.Dropped)
	assert.Equal(t, 2, report.Unparseable)

	assert.Equal(t, []string{"RJ", "MG"}, textValues(t, ds, "uf"))
	col, _ := ds.Column(domain.ColDate)
	assert.Equal(t, domain.KindDate, col.Kind)
	assert.Equal(t, []string{"2024-06-15", "2025-12-31"}, textValues(t, ds, domain.ColDate))
}

func TestYearFilter_MissingColumn(t *testing.T) {
	ds := datasetFrom(t, []string{"uf"}, []string{"SP"}, []string{"RJ"})
	logger, buf := logBuffer()

	report, err := NewYearFilter(domain.ColDate, []int{2024}, logger).Apply(context.Background(), ds)
	require.NoError(t, err)

	assert.False(t, report.Applied)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 2, ds.Len())
	assert.Contains(t, buf.String(), "year filter not applied")
}

func TestYearFilter_Idempotent(t *testing.T) {
	ds := datasetFrom(t, []string{"data_inversa"}, []string{"01/01/2024"}, []string{"01/01/2022"})
	filter := NewYearFilter("", []int{2024}, quietLogger())

	first, err := filter.Apply(context.Background(), ds)
	require.NoError(t, err)
	second, err := filter.Apply(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Dropped)
	assert.Equal(t, 0, second.Dropped)
	assert.Equal(t, 1, second.Kept)
}
