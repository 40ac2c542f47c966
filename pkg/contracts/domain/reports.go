package domain

import "time"

// InputFile is a discovered yearly export
type InputFile struct {
	Path string `json:"path"`
	Year int    `json:"year"`
}

// FileLoad records the outcome of parsing one input file
type FileLoad struct {
	Path  string `json:"path"`
	Year  int    `json:"year"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// LoadReport summarizes a Loader run
type LoadReport struct {
	Files       []FileLoad    `json:"files"`
	FilesParsed int           `json:"files_parsed"`
	FilesFailed int           `json:"files_failed"`
	Rows        int           `json:"rows"`
	Columns     int           `json:"columns"`
	Duration    time.Duration `json:"duration"`
}

// FilterReport summarizes a year filter pass
type FilterReport struct {
	Applied     bool  `json:"applied"`
	Years       []int `json:"years"`
	Kept        int   `json:"kept"`
	Dropped     int   `json:"dropped"`
	Unparseable int   `json:"unparseable"`
}

// ImputeStrategy names how a column's absent values were handled
type ImputeStrategy string

const (
	StrategySentinel ImputeStrategy = "sentinel"
	StrategyMedian   ImputeStrategy = "median"
	StrategyZero     ImputeStrategy = "zero"
	StrategyExempt   ImputeStrategy = "exempt"
	StrategyNone     ImputeStrategy = "none"
)

// ColumnCleaning records what cleaning did to one column
type ColumnCleaning struct {
	Column       string         `json:"column"`
	Kind         ColumnKind     `json:"kind"`
	AbsentBefore int            `json:"absent_before"`
	Coerced      int            `json:"coerced_to_absent"`
	OutOfRange   int            `json:"out_of_range"`
	Filled       int            `json:"filled"`
	Strategy     ImputeStrategy `json:"strategy"`
	FillValue    string         `json:"fill_value,omitempty"`
	AbsentAfter  int            `json:"absent_after"`
}

// CleaningReport summarizes a Cleaner run
type CleaningReport struct {
	Rows               int              `json:"rows"`
	Columns            []ColumnCleaning `json:"columns"`
	WeekdaysNormalized int              `json:"weekdays_normalized"`
}

// Column returns the entry for name
func (r *CleaningReport) Column(name string) (ColumnCleaning, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnCleaning{}, false
}
