package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// AddInjuryTotal adds or replaces total_feridos = feridos_leves + feridos_graves,
// reading absent inputs as 0. It reports whether the column was built.
func AddInjuryTotal(ctx context.Context, ds *domain.Dataset, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	light, okLight := ds.Column(domain.ColLightInjury)
	severe, okSevere := ds.Column(domain.ColSevereInjury)
	if !okLight || !okSevere {
		logger.DebugContext(ctx, "injury columns missing, total not derived",
			slog.Bool(domain.ColLightInjury, okLight),
			slog.Bool(domain.ColSevereInjury, okSevere))
		return false, nil
	}
	coerceNumeric(light)
	coerceNumeric(severe)

	total := domain.NewNumberColumn(domain.ColInjuryTotal, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		var sum float64
		if !light.IsAbsent(i) {
			sum += light.Num[i]
		}
		if !severe.IsAbsent(i) {
			sum += severe.Num[i]
		}
		total.SetNumber(i, sum)
	}
	if err := ds.AddColumn(total); err != nil {
		return false, err
	}
	return true, nil
}
