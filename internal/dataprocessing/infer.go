package dataprocessing

import (
	"slices"
	"strconv"
	"strings"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// parseNumber parses a decimal cell, tolerating surrounding whitespace
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// InferKinds converts every text column whose present values all parse as
// numbers into a numeric column. Always-text and categorical columns are
// left alone. Any other column with no present value becomes numeric.
func InferKinds(ds *domain.Dataset) []string {
	var converted []string
	for _, col := range ds.Columns() {
		if col.Kind != domain.KindText || neverNumeric(col.Name) {
			continue
		}
		if !allNumeric(col) {
			continue
		}
		coerceNumeric(col)
		converted = append(converted, col.Name)
	}
	return converted
}

func neverNumeric(name string) bool {
	return slices.Contains(domain.TextOnlyColumns, name) || slices.Contains(domain.CategoricalColumns, name)
}

func allNumeric(col *domain.Column) bool {
	for i, v := range col.Text {
		if !col.Valid[i] {
			continue
		}
		if _, ok := parseNumber(v); !ok {
			return false
		}
	}
	return true
}

// coerceNumeric turns col into a numeric column in place. Cells that do
// not parse become absent; the number of such cells is returned.
func coerceNumeric(col *domain.Column) int {
	switch col.Kind {
	case domain.KindNumber:
		return 0
	case domain.KindDate:
		col.ToText()
	}

	nums := make([]float64, col.Len())
	coerced := 0
	for i, v := range col.Text {
		if !col.Valid[i] {
			continue
		}
		n, ok := parseNumber(v)
		if !ok {
			col.Valid[i] = false
			coerced++
			continue
		}
		nums[i] = n
	}
	col.Num, col.Text = nums, nil
	col.Kind = domain.KindNumber
	return coerced
}
