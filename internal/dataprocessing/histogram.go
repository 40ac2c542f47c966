package dataprocessing

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// histogramEdges returns bins+1 equal-width edges spanning the data.
// Empty data spans [0,1]; a single distinct value v spans [v-0.5, v+0.5].
func histogramEdges(values []float64, bins int) []float64 {
	first, last := 0.0, 1.0
	if len(values) > 0 {
		first, last = floats.Min(values), floats.Max(values)
	}
	if first == last {
		first -= 0.5
		last += 0.5
	}

	edges := make([]float64, bins+1)
	step := (last - first) / float64(bins)
	for i := range edges {
		edges[i] = float64(i)*step + first
	}
	edges[bins] = last
	return edges
}

// histogramCounts bins values against equal-width edges. The last bin is
// closed on both ends, every other bin is half-open.
func histogramCounts(values, edges []float64) []int {
	bins := len(edges) - 1
	counts := make([]int, bins)
	first, last := edges[0], edges[bins]
	for _, x := range values {
		if x < first || x > last {
			continue
		}
		idx := int((x - first) / (last - first) * float64(bins))
		if idx == bins {
			idx--
		}
		if x < edges[idx] {
			idx--
		}
		if idx != bins-1 && x >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}
	return counts
}

// roundHalfEven rounds v to the given number of decimals, ties to even
func roundHalfEven(v float64, decimals int) float64 {
	if decimals == 0 {
		return math.RoundToEven(v)
	}
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*scale) / scale
}

// Histogram keeps the values inside [lo, hi], bins them into bins
// equal-width bins over their own min..max and labels each bin by its
// center rounded to decimals.
func Histogram(values []float64, lo, hi float64, bins, decimals int) domain.HistogramPayload {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}

	edges := histogramEdges(kept, bins)
	centers := make([]float64, bins)
	for i := range centers {
		centers[i] = roundHalfEven((edges[i]+edges[i+1])/2, decimals)
	}

	return domain.HistogramPayload{
		Bins:   centers,
		Counts: histogramCounts(kept, edges),
	}
}
