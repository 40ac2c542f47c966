package dataprocessing

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// AggregateKind selects how an aggregate is computed
type AggregateKind string

const (
	KindFrequency AggregateKind = "frequency"
	KindWeekday   AggregateKind = "weekday"
	KindHistogram AggregateKind = "histogram"
	KindScatter   AggregateKind = "scatter"
)

// OthersLabel collects the remainder of a truncated frequency table
const OthersLabel = "Outros"

// Bounds is an inclusive numeric interval
type Bounds struct {
	Min, Max float64
}

func (b Bounds) clip(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Aggregate describes one dashboard payload
type Aggregate struct {
	File    string
	Kind    AggregateKind
	Columns []string

	// frequency
	TopN   int
	Others bool

	// histogram
	Range    Bounds
	Bins     int
	Decimals int

	// scatter
	XRange Bounds
	YRange Bounds
}

// Catalogue lists the dashboard aggregates in output order. Scatter
// samples draw from one generator in this order.
var Catalogue = []Aggregate{
	{File: "top_10_causas.json", Kind: KindFrequency, Columns: []string{domain.ColCause}, TopN: 10},
	{File: "acidentes_por_dia_semana.json", Kind: KindWeekday, Columns: []string{domain.ColWeekday}},
	{File: "tipo_pista.json", Kind: KindFrequency, Columns: []string{domain.ColRoadType}},
	{File: "hist_idade.json", Kind: KindHistogram, Columns: []string{domain.ColAge},
		Range: Bounds{18, 100}, Bins: 40, Decimals: 1},
	{File: "hist_ano_veiculo.json", Kind: KindHistogram, Columns: []string{domain.ColVehicleYear},
		Range: Bounds{1980, 2025}, Bins: 50, Decimals: 0},
	{File: "proporcao_uf.json", Kind: KindFrequency, Columns: []string{domain.ColState}, TopN: 10, Others: true},
	{File: "fase_dia.json", Kind: KindFrequency, Columns: []string{domain.ColDayPhase}},
	{File: "condicao_meteo.json", Kind: KindFrequency, Columns: []string{domain.ColWeather}, TopN: 5},
	{File: "scatter_idade_ano.json", Kind: KindScatter, Columns: []string{domain.ColAge, domain.ColVehicleYear},
		XRange: Bounds{0, 100}, YRange: Bounds{1980, 2025}},
	{File: "scatter_idade_feridos.json", Kind: KindScatter, Columns: []string{domain.ColAge, domain.ColInjuryTotal},
		XRange: Bounds{0, 100}, YRange: Bounds{0, 50}},
	{File: "scatter_feridos_mortos.json", Kind: KindScatter, Columns: []string{domain.ColInjuryTotal, domain.ColDeaths},
		XRange: Bounds{0, 50}, YRange: Bounds{0, 10}},
	{File: "scatter_ano_feridos.json", Kind: KindScatter, Columns: []string{domain.ColVehicleYear, domain.ColInjuryTotal},
		XRange: Bounds{1980, 2025}, YRange: Bounds{0, 50}},
}

// Artifact is a computed payload, or the reason it was skipped
type Artifact struct {
	File    string
	Kind    AggregateKind
	Payload interface{}
	Skipped bool
	Missing []string
}

// Aggregator computes the catalogue payloads from a read-only Dataset
type Aggregator struct {
	catalogue []Aggregate
	sampleCap int
	seed      int64
	logger    *slog.Logger
}

// NewAggregator creates an aggregator. sampleCap bounds every scatter
// payload; seed fixes the sample so reruns are reproducible.
func NewAggregator(sampleCap int, seed int64, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{catalogue: Catalogue, sampleCap: sampleCap, seed: seed, logger: logger}
}

// Build computes every catalogue entry in order. Entries whose columns are
// missing come back skipped.
func (a *Aggregator) Build(ctx context.Context, ds *domain.Dataset) []Artifact {
	rng := rand.New(rand.NewSource(a.seed))
	artifacts := make([]Artifact, 0, len(a.catalogue))

	for _, agg := range a.catalogue {
		art := Artifact{File: agg.File, Kind: agg.Kind}
		for _, name := range agg.Columns {
			if !ds.Has(name) {
				art.Missing = append(art.Missing, name)
			}
		}
		if len(art.Missing) > 0 {
			art.Skipped = true
			a.logger.WarnContext(ctx, "aggregate skipped, columns missing",
				slog.String("artifact", agg.File),
				slog.Any("missing", art.Missing))
			artifacts = append(artifacts, art)
			continue
		}

		switch agg.Kind {
		case KindFrequency:
			col, _ := ds.Column(agg.Columns[0])
			art.Payload = Frequency(col, agg.TopN, agg.Others)
		case KindWeekday:
			col, _ := ds.Column(agg.Columns[0])
			art.Payload = WeekdayCounts(col)
		case KindHistogram:
			col, _ := ds.Column(agg.Columns[0])
			art.Payload = Histogram(numericValues(col), agg.Range.Min, agg.Range.Max, agg.Bins, agg.Decimals)
		case KindScatter:
			x, _ := ds.Column(agg.Columns[0])
			y, _ := ds.Column(agg.Columns[1])
			art.Payload = Scatter(x, y, agg.XRange, agg.YRange, a.sampleCap, rng)
		}
		artifacts = append(artifacts, art)
	}
	return artifacts
}

func numericValues(col *domain.Column) []float64 {
	if col.Kind != domain.KindNumber {
		col = numericView(col)
	}
	return col.Numbers()
}

type labelCount struct {
	label string
	count int
}

// countLabels tallies labels in first-appearance order
func countLabels(col *domain.Column, absent string, transform func(string) string) []labelCount {
	index := make(map[string]int)
	var counts []labelCount
	for i := 0; i < col.Len(); i++ {
		label := absent
		if !col.IsAbsent(i) {
			label = col.String(i)
		}
		if transform != nil {
			label = transform(label)
		}
		j, ok := index[label]
		if !ok {
			j = len(counts)
			index[label] = j
			counts = append(counts, labelCount{label: label})
		}
		counts[j].count++
	}
	return counts
}

// Frequency counts the values of col, most frequent first with ties in
// first-appearance order. Absent values count as "Não Informado".
// A positive topN truncates the table; with others the truncated
// remainder is appended as "Outros" when non-zero.
func Frequency(col *domain.Column, topN int, others bool) domain.FrequencyPayload {
	counts := countLabels(col, domain.NotInformed, nil)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })

	var rest int
	if topN > 0 && len(counts) > topN {
		for _, c := range counts[topN:] {
			rest += c.count
		}
		counts = counts[:topN]
	}

	payload := domain.FrequencyPayload{Labels: make([]string, 0, len(counts)+1), Data: make([]int, 0, len(counts)+1)}
	for _, c := range counts {
		payload.Labels = append(payload.Labels, c.label)
		payload.Data = append(payload.Data, c.count)
	}
	if others && rest > 0 {
		payload.Labels = append(payload.Labels, OthersLabel)
		payload.Data = append(payload.Data, rest)
	}
	return payload
}

// WeekdayCounts counts lower-cased weekday values in dashboard order.
// Weekdays without rows and non-canonical labels are left out.
func WeekdayCounts(col *domain.Column) domain.FrequencyPayload {
	counts := countLabels(col, strings.ToLower(domain.NotInformed), strings.ToLower)
	byLabel := make(map[string]int, len(counts))
	for _, c := range counts {
		byLabel[c.label] = c.count
	}

	payload := domain.FrequencyPayload{Labels: []string{}, Data: []int{}}
	for _, day := range domain.WeekdayDisplayOrder {
		if n, ok := byLabel[day]; ok {
			payload.Labels = append(payload.Labels, day)
			payload.Data = append(payload.Data, n)
		}
	}
	return payload
}

// Scatter pairs x and y row by row, dropping rows where either is absent
// and clipping values into their bounds. More than sampleCap points are
// reduced to a uniform sample without replacement drawn from rng.
func Scatter(x, y *domain.Column, xr, yr Bounds, sampleCap int, rng *rand.Rand) domain.ScatterPayload {
	if x.Kind != domain.KindNumber {
		x = numericView(x)
	}
	if y.Kind != domain.KindNumber {
		y = numericView(y)
	}

	points := make([]domain.Point, 0, x.Len())
	for i := 0; i < x.Len(); i++ {
		if x.IsAbsent(i) || y.IsAbsent(i) {
			continue
		}
		points = append(points, domain.Point{X: xr.clip(x.Num[i]), Y: yr.clip(y.Num[i])})
	}

	if sampleCap > 0 && len(points) > sampleCap {
		sample := make([]domain.Point, sampleCap)
		for i, j := range rng.Perm(len(points))[:sampleCap] {
			sample[i] = points[j]
		}
		points = sample
	}
	return domain.ScatterPayload{Points: points}
}
