package mcp

import (
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
)

// Ports aggregates the ports required by the MCP server.
type Ports struct {
	// Case manages cases and their snapshots.
	Case driving.CaseService

	// Report builds evidence reports.
	Report driving.ReportService

	// Renderers turn report payloads into documents. Optional; without
	// them case_report only returns JSON.
	Renderers []driven.ReportRenderer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Case == nil {
		return ErrMissingCaseService
	}
	if p.Report == nil {
		return ErrMissingReportService
	}
	return nil
}
