package operations

import (
	"time"
)

// Step identifiers
const (
	StageIDDiscover  = "discover"
	StageIDLoad      = "load"
	StageIDFilter    = "filter"
	StageIDClean     = "clean"
	StageIDDerive    = "derive"
	StageIDSnapshot  = "snapshot"
	StageIDExport    = "export"
	StageIDSource    = "source"
	StageIDAggregate = "aggregate"
	StageIDStats     = "stats"
	StageIDWorkbook  = "workbook"
)

// Step names
const (
	StageNameDiscover  = "Input Discovery"
	StageNameLoad      = "Load Inputs"
	StageNameFilter    = "Year Filter"
	StageNameClean     = "Cleaning"
	StageNameDerive    = "Derived Fields"
	StageNameSnapshot  = "Snapshot"
	StageNameExport    = "Dataset Exports"
	StageNameSource    = "Snapshot Source"
	StageNameAggregate = "Aggregates"
	StageNameStats     = "Descriptive Statistics"
	StageNameWorkbook  = "Aggregate Workbook"
)

// Commands a run can execute
const (
	CommandPrepare = "prepare"
	CommandAnalyze = "analyze"
)

// Where the analyze run got its dataset from
const (
	SourceSnapshot = "snapshot"
	SourceRebuild  = "rebuild"
)

// Artifact outcomes reported in the run summary and metrics
const (
	ArtifactWritten = "written"
	ArtifactSkipped = "skipped"
	ArtifactFailed  = "failed"
)

// Default timeouts
const (
	DefaultStageTimeout = 30 * time.Minute
	DefaultLoadTimeout  = 60 * time.Minute
)

// OperationResponse represents the response from an operation execution
type OperationResponse struct {
	ID        string               `json:"id"`
	Command   string               `json:"command"`
	Status    OperationStatusValue `json:"status"`
	Duration  time.Duration        `json:"duration"`
	Steps     []*StepState         `json:"steps"`
	Artifacts ArtifactSummary      `json:"artifacts"`
	Error     string               `json:"error,omitempty"`
}
