package domain

// Built-in ranking defaults.
const (
	DefaultWeightActor   = 2.5
	DefaultWeightRelated = 1.0
	DefaultWeightText    = 2.0
	DefaultMinScore      = 0.8
	DefaultMinTextSim    = 0.34

	DefaultMaxResults = 80
	MinMaxResults     = 1
	MaxMaxResults     = 400
)

// ClampLimit clamps a result limit to [MinMaxResults, MaxMaxResults].
// Non-positive values fall back to DefaultMaxResults.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	if n > MaxMaxResults {
		return MaxMaxResults
	}
	return n
}

// Weights are the multipliers applied to each score component.
type Weights struct {
	Actor   float64 `json:"actor"`
	Related float64 `json:"related"`
	Text    float64 `json:"text"`
}

// DefaultWeights returns the built-in weights.
func DefaultWeights() Weights {
	return Weights{Actor: DefaultWeightActor, Related: DefaultWeightRelated, Text: DefaultWeightText}
}

// WeightOverrides replaces individual weights when set.
type WeightOverrides struct {
	Actor   *float64 `json:"actor,omitempty"`
	Related *float64 `json:"related,omitempty"`
	Text    *float64 `json:"text,omitempty"`
}

// Apply returns base with every set override applied.
func (o *WeightOverrides) Apply(base Weights) Weights {
	if o == nil {
		return base
	}
	if o.Actor != nil {
		base.Actor = *o.Actor
	}
	if o.Related != nil {
		base.Related = *o.Related
	}
	if o.Text != nil {
		base.Text = *o.Text
	}
	return base
}

// RankOptions are per-request overrides for a ranking pass.
// Zero values mean "use the case profile, then configured settings".
type RankOptions struct {
	Limit      int              `json:"limit,omitempty"`
	Weights    *WeightOverrides `json:"weights,omitempty"`
	MinScore   *float64         `json:"minScore,omitempty"`
	MinTextSim *float64         `json:"minTextSim,omitempty"`
}

// RankedComponents is the auditable breakdown of one record's score.
// The weights and thresholds actually applied are stored alongside
// so the computation can be explained without re-reading config.
type RankedComponents struct {
	KeywordScore float64 `json:"keywordScore"`
	TextSim      float64 `json:"textSim"`
	QHit         int     `json:"qHit"`
	QTotal       int     `json:"qTotal"`

	ActorScore  float64 `json:"actorScore"`
	ActorMatch  bool    `json:"actorMatch"`
	IsMainActor bool    `json:"isMainActor"`

	RelatedScore float64 `json:"relatedScore"`
	RelatedHits  int     `json:"relatedHits"`

	InRange bool `json:"inRange"`

	WActor     float64 `json:"wActor"`
	WRelated   float64 `json:"wRelated"`
	WText      float64 `json:"wText"`
	MinScore   float64 `json:"minScore"`
	MinTextSim float64 `json:"minTextSim"`
}

// Total returns the additive score. InRange gates inclusion but never adds.
func (c RankedComponents) Total() float64 {
	return c.KeywordScore + c.ActorScore + c.RelatedScore
}

// RankedHit is a record paired with its score, dense rank and explanation.
type RankedHit struct {
	ID         string           `json:"id"`
	Score      float64          `json:"score"`
	Rank       int              `json:"rank"`
	Reasons    []string         `json:"reasons"`
	Components RankedComponents `json:"components"`
	Record     Record           `json:"record"`
}
