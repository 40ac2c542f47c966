package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
)

// SplitList splits a comma separated flag value, dropping empty entries
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseYears parses a flag value such as "2024,2025"
func ParseYears(value string) ([]int, error) {
	parts := SplitList(value)
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid year %q", p), err)
		}
		years = append(years, y)
	}
	return years, nil
}
