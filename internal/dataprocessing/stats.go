package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// StatsColumns are summarized in the statistics document, in this order
var StatsColumns = []string{domain.ColDeaths, domain.ColInjuryTotal, domain.ColAge}

// Median returns the middle value of values, averaging the two middle
// values for even lengths. values is not modified. Empty input yields NaN.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Describe computes mean, median and sample standard deviation over the
// present values of each named numeric column. Missing columns are skipped.
func Describe(ds *domain.Dataset, columns []string) []domain.ColumnStats {
	var out []domain.ColumnStats
	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		if col.Kind != domain.KindNumber {
			col = numericView(col)
		}
		values := col.Numbers()

		s := domain.ColumnStats{Column: name, Count: len(values), Mean: math.NaN(), Median: math.NaN(), StdDev: math.NaN()}
		if len(values) > 0 {
			s.Mean = stat.Mean(values, nil)
			s.Median = Median(values)
		}
		if len(values) > 1 {
			s.StdDev = stat.StdDev(values, nil)
		}
		out = append(out, s)
	}
	return out
}

// numericView returns a numeric copy of a non-numeric column
func numericView(col *domain.Column) *domain.Column {
	cp := &domain.Column{Name: col.Name, Kind: col.Kind, Valid: append([]bool(nil), col.Valid...)}
	cp.Text = append([]string(nil), col.Text...)
	cp.Date = append(cp.Date, col.Date...)
	coerceNumeric(cp)
	return cp
}

// formatStat renders v with two decimals, printing NaN as "nan"
func formatStat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// StatsMarkdown renders the statistics document
func StatsMarkdown(stats []domain.ColumnStats) string {
	lines := make([]string, len(stats))
	for i, s := range stats {
		lines[i] = fmt.Sprintf("- %s: média %s, mediana %s, desvio %s",
			s.Column, formatStat(s.Mean), formatStat(s.Median), formatStat(s.StdDev))
	}
	return "# Estatísticas rápidas\n\n" + strings.Join(lines, "\n")
}
