package ranking

import (
	"strings"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Params are the fully resolved knobs of one ranking pass.
type Params struct {
	Weights    domain.Weights
	MinScore   float64
	MinTextSim float64
	Limit      int
}

// DefaultParams returns the built-in parameters.
func DefaultParams() Params {
	return Params{
		Weights:    domain.DefaultWeights(),
		MinScore:   domain.DefaultMinScore,
		MinTextSim: domain.DefaultMinTextSim,
		Limit:      domain.DefaultMaxResults,
	}
}

// ParamsFromSettings returns the parameters implied by configured settings.
func ParamsFromSettings(s domain.RankingSettings) Params {
	return Params{
		Weights:    s.Weights,
		MinScore:   s.MinScore,
		MinTextSim: s.MinTextSim,
		Limit:      domain.ClampLimit(s.MaxResults),
	}
}

// Resolve layers the case profile and then the request options over base.
// The limit is always clamped to [1,400].
func Resolve(base Params, profile domain.CaseProfile, opts domain.RankOptions) Params {
	p := base

	p.Weights = profile.Weights.Apply(p.Weights)
	if profile.MinScore != nil {
		p.MinScore = *profile.MinScore
	}
	if profile.MinTextSim != nil {
		p.MinTextSim = *profile.MinTextSim
	}
	if profile.MaxResults > 0 {
		p.Limit = profile.MaxResults
	}

	p.Weights = opts.Weights.Apply(p.Weights)
	if opts.MinScore != nil {
		p.MinScore = *opts.MinScore
	}
	if opts.MinTextSim != nil {
		p.MinTextSim = *opts.MinTextSim
	}
	if opts.Limit > 0 {
		p.Limit = opts.Limit
	}

	p.Limit = domain.ClampLimit(p.Limit)
	return p
}

// scorer holds the per-pass state derived from a case profile.
type scorer struct {
	params    Params
	qTokens   []string
	caseKeys  map[string]struct{}
	main      domain.ActorRef
	hasMain   bool
	from, to  time.Time
	hasBounds bool
}

func newScorer(profile domain.CaseProfile, params Params) *scorer {
	main, hasMain := profile.MainActor()
	return &scorer{
		params:    params,
		qTokens:   Tokenize(profile.Query),
		caseKeys:  KeySet(profile.Actors),
		main:      main,
		hasMain:   hasMain,
		from:      profile.TimeFrom,
		to:        profile.TimeTo,
		hasBounds: profile.HasTimeBounds(),
	}
}

// Score computes the score breakdown of one record against a case profile.
func Score(record domain.Record, profile domain.CaseProfile, params Params) domain.RankedComponents {
	return newScorer(profile, params).score(record)
}

func (s *scorer) score(r domain.Record) domain.RankedComponents {
	w := s.params.Weights
	c := domain.RankedComponents{
		QTotal:     len(s.qTokens),
		WActor:     w.Actor,
		WRelated:   w.Related,
		WText:      w.Text,
		MinScore:   s.params.MinScore,
		MinTextSim: s.params.MinTextSim,
	}

	// Every query token is checked on its own; a token repeated in the
	// query counts once per occurrence.
	summary := strings.ToLower(strings.TrimSpace(r.Summary))
	for _, tok := range s.qTokens {
		if strings.Contains(summary, tok) {
			c.QHit++
		}
	}
	if c.QTotal > 0 {
		c.TextSim = float64(c.QHit) / float64(c.QTotal)
	}
	c.KeywordScore = c.TextSim * w.Text

	c.IsMainActor = s.hasMain && ActorEq(r.Actor, s.main)
	_, c.ActorMatch = s.caseKeys[ActorKey(r.Actor)]
	if c.ActorMatch {
		c.ActorScore = w.Actor
	}

	for _, rel := range r.Related {
		if _, ok := s.caseKeys[ActorKey(rel)]; ok {
			c.RelatedHits++
		}
	}
	c.RelatedScore = float64(c.RelatedHits) * w.Related

	c.InRange = s.inRange(r.Timestamp)
	return c
}

// inRange treats unset bounds as open and an unknown timestamp as inside.
func (s *scorer) inRange(ts time.Time) bool {
	if !s.hasBounds || ts.IsZero() {
		return true
	}
	if !s.from.IsZero() && ts.Before(s.from) {
		return false
	}
	if !s.to.IsZero() && ts.After(s.to) {
		return false
	}
	return true
}

// included applies the inclusion predicate to a scored record.
// With no query the keyword clause passes; textSim itself stays 0.
func (s *scorer) included(c domain.RankedComponents) bool {
	if s.hasBounds && !c.InRange {
		return false
	}
	keywordOK := true
	if len(s.qTokens) > 0 {
		keywordOK = c.TextSim >= s.params.MinTextSim
	}
	if !c.IsMainActor && c.RelatedHits == 0 && !keywordOK {
		return false
	}
	return c.Total() >= s.params.MinScore
}
