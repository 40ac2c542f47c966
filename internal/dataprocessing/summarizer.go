package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// skewRemarks are the console comparisons of mean against median
var skewRemarks = map[domain.Skewness]string{
	domain.SkewRight:     "A média é maior que a mediana, o que sugere uma assimetria à direita.",
	domain.SkewLeft:      "A média é menor que a mediana, o que sugere uma assimetria à esquerda.",
	domain.SkewSymmetric: "A média e a mediana são muito próximas, sugerindo uma distribuição relativamente simétrica.",
}

// Summarizer writes the statistics document and renders the console summary
type Summarizer struct {
	logger  *slog.Logger
	printer *message.Printer
}

// NewSummarizer creates a summarizer printing numbers in Brazilian Portuguese
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger:  logger,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// WriteStats writes the statistics document to path
func (s *Summarizer) WriteStats(ctx context.Context, path string, stats []domain.ColumnStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for statistics", err).WithContext("path", path)
	}

	if err := os.WriteFile(path, []byte(StatsMarkdown(stats)), 0644); err != nil {
		return errors.NewStorageError("failed to write statistics", err).WithContext("path", path)
	}

	s.logger.InfoContext(ctx, "statistics written",
		slog.String("path", path),
		slog.Int("columns", len(stats)))
	return nil
}

// Console renders the human readable run summary: per column statistics
// with a skewness remark.
func (s *Summarizer) Console(stats []domain.ColumnStats) string {
	var b strings.Builder
	b.WriteString("--- Análise Estatística Descritiva ---\n")
	for _, st := range stats {
		b.WriteString(s.printer.Sprintf("\nEstatísticas para a coluna '%s' (%d valores):\n", st.Column, st.Count))
		b.WriteString(s.printer.Sprintf("  - Média: %.4f\n", st.Mean))
		b.WriteString(s.printer.Sprintf("  - Mediana: %.4f\n", st.Median))
		b.WriteString(s.printer.Sprintf("  - Desvio Padrão: %.4f\n", st.StdDev))
		b.WriteString("  - Comparação: " + skewRemarks[st.Skew()] + "\n")
	}
	return b.String()
}
