// Package render provides the ReportRenderer adapters shipped with the CLI:
// a styled text rendering for terminals and files, and a JSON rendering of
// the raw payload for other tools.
package render
