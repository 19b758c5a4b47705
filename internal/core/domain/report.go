package domain

import "time"

// RowKind distinguishes evidence rows from manual timeline steps.
type RowKind string

// Report row kinds.
const (
	RowKindRecord RowKind = "record"
	RowKindStep   RowKind = "step"
)

// ReportRow is one line of the evidence table.
type ReportRow struct {
	When             time.Time   `json:"when"`
	Kind             RowKind     `json:"kind"`
	SensitivityLevel Sensitivity `json:"sensitivityLevel,omitempty"`
	Actor            string      `json:"actor"`
	Place            string      `json:"place"`
	Summary          string      `json:"summary"`
	ID               string      `json:"id"`
	Reason           string      `json:"reason"`
}

// FactBlock groups the evidence of a single day.
type FactBlock struct {
	Date  string   `json:"date"`
	Lines []string `json:"lines"`

	// Overflow counts records of the day not listed in Lines.
	Overflow int `json:"overflow"`
}

// ReportPayload is everything an external renderer needs for a case report.
type ReportPayload struct {
	CaseID      string      `json:"caseId"`
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Overview    []string    `json:"overview"`
	Facts       []FactBlock `json:"facts"`
	Advisories  []string    `json:"advisories"`
	Rows        []ReportRow `json:"rows"`

	// ContentHash is a SHA-256 hex digest shown as a tamper-evidence hint.
	// It is not a security guarantee.
	ContentHash string `json:"contentHash"`
}
