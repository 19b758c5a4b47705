package domain

import "time"

// AdvisorLevel is the urgency of an advisory item.
type AdvisorLevel string

// Advisory levels.
const (
	AdvisorInfo     AdvisorLevel = "info"
	AdvisorWarn     AdvisorLevel = "warn"
	AdvisorCritical AdvisorLevel = "critical"
)

// AdvisorState tracks whether the operator acted on an advisory item.
type AdvisorState string

// Advisory states.
const (
	AdvisorActive    AdvisorState = "active"
	AdvisorDone      AdvisorState = "done"
	AdvisorDismissed AdvisorState = "dismissed"
)

// IsValid returns true if the state is recognised.
func (s AdvisorState) IsValid() bool {
	switch s {
	case AdvisorActive, AdvisorDone, AdvisorDismissed:
		return true
	default:
		return false
	}
}

// AdvisorItem is a piece of generated guidance attached to a case.
type AdvisorItem struct {
	ID     string       `json:"id"`
	TS     time.Time    `json:"ts"`
	Title  string       `json:"title"`
	Body   string       `json:"body"`
	Level  AdvisorLevel `json:"level"`
	Tags   []string     `json:"tags"`
	State  AdvisorState `json:"state"`
	RuleID string       `json:"ruleId,omitempty"`

	// Extra carries bounded provider-specific fields.
	Extra map[string]string `json:"extra,omitempty"`
}
