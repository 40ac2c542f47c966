package exporter

import (
	"time"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// PrepareReport is the JSON document describing one prepare run
type PrepareReport struct {
	GeneratedAt string                 `json:"generated_at"`
	Version     string                 `json:"version"`
	TraceID     string                 `json:"trace_id,omitempty"`
	Load        *domain.LoadReport     `json:"load,omitempty"`
	Filter      *domain.FilterReport   `json:"filter,omitempty"`
	Cleaning    *domain.CleaningReport `json:"cleaning,omitempty"`
	Snapshot    string                 `json:"snapshot,omitempty"`
	Codec       string                 `json:"codec,omitempty"`
}

// NewPrepareReport stamps a report with the current time and version
func NewPrepareReport(traceID string) *PrepareReport {
	return &PrepareReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     contracts.Version,
		TraceID:     traceID,
	}
}
