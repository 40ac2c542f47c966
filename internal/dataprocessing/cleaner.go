package dataprocessing

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// valueRange is an inclusive plausibility interval
type valueRange struct {
	min, max float64
}

var validRanges = map[string]valueRange{
	domain.ColAge:         {domain.MinAge, domain.MaxAge},
	domain.ColVehicleYear: {domain.MinVehicleYear, domain.MaxVehicleYear},
}

// Cleaner coerces, range-checks, imputes and normalizes a loaded Dataset in place
type Cleaner struct {
	logger   *slog.Logger
	weekdays *WeekdayNormalizer
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger, weekdays: NewWeekdayNormalizer()}
}

// Clean runs the cleaning steps in order: numeric coercion, range
// invalidation, imputation, weekday normalization.
func (c *Cleaner) Clean(ctx context.Context, ds *domain.Dataset) (*domain.CleaningReport, error) {
	report := &domain.CleaningReport{Rows: ds.Len()}
	entries := make(map[string]*domain.ColumnCleaning, len(ds.Names()))
	for _, col := range ds.Columns() {
		report.Columns = append(report.Columns, domain.ColumnCleaning{
			Column:       col.Name,
			AbsentBefore: col.AbsentCount(),
		})
	}
	for i := range report.Columns {
		entries[report.Columns[i].Column] = &report.Columns[i]
	}

	c.logMissing(ctx, report)

	for _, name := range domain.NumericColumns {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		entries[name].Coerced = coerceNumeric(col)
	}

	for name, r := range validRanges {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		entries[name].OutOfRange = invalidateOutside(col, r)
	}

	for _, col := range ds.Columns() {
		c.impute(col, entries[col.Name])
	}

	if col, ok := ds.Column(domain.ColWeekday); ok {
		report.WeekdaysNormalized = c.normalizeWeekdays(col)
	}

	for _, col := range ds.Columns() {
		e := entries[col.Name]
		e.Kind = col.Kind
		e.AbsentAfter = col.AbsentCount()
	}

	c.logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("rows", report.Rows),
		slog.Int("columns", len(report.Columns)),
		slog.Int("weekdays_normalized", report.WeekdaysNormalized))

	return report, nil
}

func (c *Cleaner) logMissing(ctx context.Context, report *domain.CleaningReport) {
	for _, e := range report.Columns {
		if e.AbsentBefore == 0 {
			continue
		}
		c.logger.DebugContext(ctx, "missing values before cleaning",
			slog.String("column", e.Column),
			slog.Int("absent", e.AbsentBefore))
	}
}

func invalidateOutside(col *domain.Column, r valueRange) int {
	n := 0
	for i, v := range col.Num {
		if !col.Valid[i] {
			continue
		}
		if v < r.min || v > r.max {
			col.SetAbsent(i)
			n++
		}
	}
	return n
}

func (c *Cleaner) impute(col *domain.Column, e *domain.ColumnCleaning) {
	switch {
	case slices.Contains(domain.ImputationExempt, col.Name):
		e.Strategy = domain.StrategyExempt
		return
	case col.Name == domain.ColCause:
		e.Strategy = domain.StrategySentinel
		e.FillValue = domain.NotInformed
		if col.AbsentCount() > 0 && col.Kind != domain.KindText {
			col.ToText()
		}
	case col.Kind == domain.KindNumber && slices.Contains(domain.CountColumns, col.Name):
		e.Strategy = domain.StrategyZero
		e.FillValue = "0"
	case col.Kind == domain.KindNumber:
		e.Strategy = domain.StrategyMedian
		median := 0.0
		if values := col.Numbers(); len(values) > 0 {
			median = Median(values)
		}
		e.FillValue = strconv.FormatFloat(median, 'f', -1, 64)
	case col.Kind == domain.KindText:
		e.Strategy = domain.StrategySentinel
		e.FillValue = domain.NotInformed
	default:
		e.Strategy = domain.StrategyNone
		return
	}

	for i := 0; i < col.Len(); i++ {
		if !col.IsAbsent(i) {
			continue
		}
		if col.Kind == domain.KindText {
			col.SetText(i, e.FillValue)
		} else {
			v, _ := strconv.ParseFloat(e.FillValue, 64)
			col.SetNumber(i, v)
		}
		e.Filled++
	}
}

func (c *Cleaner) normalizeWeekdays(col *domain.Column) int {
	if col.Kind != domain.KindText {
		col.ToText()
	}
	mapped := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsAbsent(i) {
			continue
		}
		v, ok := c.weekdays.Normalize(col.Text[i])
		if ok {
			mapped++
		}
		col.Text[i] = v
	}
	return mapped
}
