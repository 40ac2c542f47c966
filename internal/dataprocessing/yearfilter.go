package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// dateLayouts are tried in order; day-first forms come before ISO
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02-01-2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseEventDate parses a day-first event date
func ParseEventDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// YearFilter keeps only the rows whose event year is configured
type YearFilter struct {
	column string
	years  map[int]bool
	logger *slog.Logger
}

// NewYearFilter creates a filter on column for years
func NewYearFilter(column string, years []int, logger *slog.Logger) *YearFilter {
	if column == "" {
		column = domain.ColDate
	}
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[int]bool, len(years))
	for _, y := range years {
		set[y] = true
	}
	return &YearFilter{column: column, years: set, logger: logger}
}

// Years returns the configured years in ascending order
func (f *YearFilter) Years() []int {
	years := make([]int, 0, len(f.years))
	for y := range f.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Apply converts the date column to dates and retains matching rows.
// Rows whose date is absent or unparseable are dropped and counted.
// Without a date column the dataset is returned untouched.
func (f *YearFilter) Apply(ctx context.Context, ds *domain.Dataset) (domain.FilterReport, error) {
	report := domain.FilterReport{Years: f.Years()}

	col, ok := ds.Column(f.column)
	if !ok {
		f.logger.WarnContext(ctx, "date column missing, year filter not applied",
			slog.String("column", f.column))
		report.Kept = ds.Len()
		return report, nil
	}
	report.Applied = true

	dates := toDateColumn(col)
	keep := make([]bool, ds.Len())
	for i := range keep {
		if !dates.Valid[i] {
			report.Unparseable++
			continue
		}
		keep[i] = f.years[dates.Date[i].Year()]
	}
	if err := ds.AddColumn(dates); err != nil {
		return report, err
	}

	dropped, err := ds.Retain(keep)
	if err != nil {
		return report, err
	}
	report.Dropped = dropped
	report.Kept = ds.Len()

	f.logger.InfoContext(ctx, "year filter applied",
		slog.Any("years", report.Years),
		slog.Int("kept", report.Kept),
		slog.Int("dropped", report.Dropped),
		slog.Int("unparseable", report.Unparseable))
	if report.Unparseable > 0 {
		f.logger.WarnContext(ctx, "rows with unparseable dates dropped",
			slog.String("column", f.column),
			slog.Int("rows", report.Unparseable))
	}
	return report, nil
}

func toDateColumn(col *domain.Column) *domain.Column {
	if col.Kind == domain.KindDate {
		return col
	}
	out := domain.NewDateColumn(col.Name, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsAbsent(i) {
			continue
		}
		if t, ok := ParseEventDate(col.String(i)); ok {
			out.SetDate(i, t)
		}
	}
	return out
}
