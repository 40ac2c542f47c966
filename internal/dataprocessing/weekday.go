package dataprocessing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// WeekdayNormalizer maps weekday labels to the canonical lower-case names
type WeekdayNormalizer struct {
	fold    cases.Caser
	lower   cases.Caser
	aliases map[string]string
}

// NewWeekdayNormalizer builds the alias table from domain.WeekdayAliases
func NewWeekdayNormalizer() *WeekdayNormalizer {
	n := &WeekdayNormalizer{
		fold:    cases.Fold(),
		lower:   cases.Lower(language.BrazilianPortuguese),
		aliases: make(map[string]string, len(domain.WeekdayAliases)),
	}
	for alias, canonical := range domain.WeekdayAliases {
		n.aliases[n.key(alias)] = canonical
	}
	return n
}

func (n *WeekdayNormalizer) key(s string) string {
	return n.fold.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Normalize returns the canonical form of s and whether an alias matched
func (n *WeekdayNormalizer) Normalize(s string) (string, bool) {
	if canonical, ok := n.aliases[n.key(s)]; ok {
		return canonical, true
	}
	return n.lower.String(norm.NFC.String(s)), false
}
