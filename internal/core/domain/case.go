package domain

import "time"

// CaseStatus tracks where a case is in its lifecycle.
type CaseStatus string

// Case statuses.
const (
	CaseStatusOpen     CaseStatus = "진행중"
	CaseStatusReplying CaseStatus = "답변 준비"
	CaseStatusClosed   CaseStatus = "종결"
)

// IsValid returns true if the status is recognised.
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusReplying, CaseStatusClosed:
		return true
	default:
		return false
	}
}

// CaseProfile is the ranking input of a case.
type CaseProfile struct {
	// Actors lists case parties; index 0 is the main actor.
	Actors []ActorRef `json:"actors"`

	// Query is the free-text keyword query.
	Query string `json:"query"`

	// TimeFrom and TimeTo bound record timestamps. Zero means unbounded on that side.
	TimeFrom time.Time `json:"timeFrom"`
	TimeTo   time.Time `json:"timeTo"`

	// OnlyMainActor restricts the candidate pool to records whose actor is the main actor.
	OnlyMainActor bool `json:"onlyMainActor"`

	// Weights overrides the configured weights for this case.
	Weights *WeightOverrides `json:"weights,omitempty"`

	// MinScore and MinTextSim override the configured thresholds for this case.
	MinScore   *float64 `json:"minScore,omitempty"`
	MinTextSim *float64 `json:"minTextSim,omitempty"`

	// MaxResults is the result limit, clamped to [1,400].
	MaxResults int `json:"maxResults"`
}

// MainActor returns the first case actor, if any.
func (p CaseProfile) MainActor() (ActorRef, bool) {
	if len(p.Actors) == 0 {
		return ActorRef{}, false
	}
	return p.Actors[0], true
}

// HasTimeBounds returns true if either side of the time range is set.
func (p CaseProfile) HasTimeBounds() bool {
	return !p.TimeFrom.IsZero() || !p.TimeTo.IsZero()
}

// Snapshot is the persisted record membership of a case.
// It is a curation log, not a pure function of the current records:
// records can be included manually regardless of their score.
type Snapshot struct {
	// RecordIDs is the ordered, duplicate-free list of included records.
	RecordIDs []string `json:"recordIds"`

	// ScoreByRecordID caches the last known score per record.
	ScoreByRecordID map[string]float64 `json:"scoreByRecordId"`

	// ComponentsByRecordID caches the last known score breakdown per record.
	ComponentsByRecordID map[string]RankedComponents `json:"componentsByRecordId"`
}

// Contains reports whether the record is part of the snapshot.
func (s Snapshot) Contains(recordID string) bool {
	for _, id := range s.RecordIDs {
		if id == recordID {
			return true
		}
	}
	return false
}

// Step is a manual note on a case timeline.
type Step struct {
	ID   string    `json:"id"`
	TS   time.Time `json:"ts"`
	Name string    `json:"name"`
	Note string    `json:"note"`
}

// Case groups related records for producing an evidence report.
type Case struct {
	// ID is the unique identifier for the case.
	ID string `json:"id"`

	// Title is the human-readable case name.
	Title string `json:"title"`

	// Status is the lifecycle state.
	Status CaseStatus `json:"status"`

	// Profile drives ranking for this case.
	Profile CaseProfile `json:"profile"`

	// Snapshot is owned exclusively by this case.
	Snapshot Snapshot `json:"snapshot"`

	// Steps are manual timeline notes.
	Steps []Step `json:"steps"`

	// Advisors are generated guidance items.
	Advisors []AdvisorItem `json:"advisors"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
