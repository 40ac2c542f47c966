package domain

// FrequencyPayload is a value -> count table ready for bar and pie charts
type FrequencyPayload struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// HistogramPayload pairs bin centers with per-bin counts
type HistogramPayload struct {
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
}

// Point is one scatter plot coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterPayload is a capped sample of coordinate pairs
type ScatterPayload struct {
	Points []Point `json:"points"`
}

// Total returns the sum of all counts in the table
func (p FrequencyPayload) Total() int {
	total := 0
	for _, n := range p.Data {
		total += n
	}
	return total
}

// Skewness describes how the mean compares to the median
type Skewness string

const (
	SkewRight     Skewness = "right"
	SkewLeft      Skewness = "left"
	SkewSymmetric Skewness = "symmetric"
)

// ColumnStats holds descriptive statistics of one numeric column
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Skew classifies the distribution from the mean/median relation
func (s ColumnStats) Skew() Skewness {
	switch {
	case s.Mean > s.Median:
		return SkewRight
	case s.Mean < s.Median:
		return SkewLeft
	default:
		return SkewSymmetric
	}
}
