package domain

import "time"

// RecordDraft is user input for a new record.
type RecordDraft struct {
	Timestamp   time.Time         `json:"ts"`
	Actor       ActorRef          `json:"actor" validate:"required"`
	Related     []ActorRef        `json:"related"`
	Place       string            `json:"place" validate:"required,max=64"`
	PlaceOther  string            `json:"placeOther" validate:"max=64"`
	Summary     string            `json:"summary" validate:"required,max=4000"`
	Sensitivity Sensitivity       `json:"lv" validate:"required"`
	StoreType   string            `json:"storeType" validate:"required,max=64"`
	StoreOther  string            `json:"storeOther" validate:"max=64"`
	Extra       map[string]string `json:"extra" validate:"max=16"`
}

// CaseDraft is user input for a new case.
type CaseDraft struct {
	Title         string           `json:"title" validate:"max=200"`
	Actors        []ActorRef       `json:"actors" validate:"required,min=1"`
	Query         string           `json:"query" validate:"max=500"`
	TimeFrom      time.Time        `json:"timeFrom"`
	TimeTo        time.Time        `json:"timeTo"`
	OnlyMainActor bool             `json:"onlyMainActor"`
	Weights       *WeightOverrides `json:"weights,omitempty"`
	MinScore      *float64         `json:"minScore,omitempty"`
	MinTextSim    *float64         `json:"minTextSim,omitempty"`
	MaxResults    int              `json:"maxResults" validate:"gte=0"`
}

// Profile returns the ranking profile described by the draft.
func (d CaseDraft) Profile() CaseProfile {
	return CaseProfile{
		Actors:        d.Actors,
		Query:         d.Query,
		TimeFrom:      d.TimeFrom,
		TimeTo:        d.TimeTo,
		OnlyMainActor: d.OnlyMainActor,
		Weights:       d.Weights,
		MinScore:      d.MinScore,
		MinTextSim:    d.MinTextSim,
		MaxResults:    ClampLimit(d.MaxResults),
	}
}

// StepDraft is user input for a manual timeline note.
type StepDraft struct {
	TS   time.Time `json:"ts"`
	Name string    `json:"name" validate:"required,max=200"`
	Note string    `json:"note" validate:"max=4000"`
}
