// Package mcp serves casefile over the Model Context Protocol so an
// assistant can browse cases, review candidates and read reports.
package mcp

import "errors"

// Port validation errors.
var (
	ErrMissingCaseService   = errors.New("mcp: case service is required")
	ErrMissingReportService = errors.New("mcp: report service is required")
)
