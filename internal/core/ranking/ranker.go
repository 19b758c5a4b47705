package ranking

import (
	"sort"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Rank scores every record against the case profile, keeps the records
// passing the inclusion predicate, and returns them sorted by score
// (ties broken by ascending id) with ranks 1..N, truncated to params.Limit.
//
// An empty pool yields an empty, non-nil result.
func Rank(records []domain.Record, profile domain.CaseProfile, params Params) []domain.RankedHit {
	params.Limit = domain.ClampLimit(params.Limit)
	s := newScorer(profile, params)

	hits := make([]domain.RankedHit, 0, len(records))
	for _, r := range scope(records, profile) {
		c := s.score(r)
		if !s.included(c) {
			continue
		}
		hits = append(hits, domain.RankedHit{
			ID:         r.ID,
			Score:      c.Total(),
			Components: c,
			Record:     r,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	for i := range hits {
		hits[i].Rank = i + 1
	}

	if len(hits) > params.Limit {
		hits = hits[:params.Limit]
	}

	for i := range hits {
		hits[i].Reasons = Reasons(hits[i].Components)
	}

	return hits
}

// scope applies the main-actor restriction. A case without actors is not restricted.
func scope(records []domain.Record, profile domain.CaseProfile) []domain.Record {
	main, ok := profile.MainActor()
	if !profile.OnlyMainActor || !ok {
		return records
	}
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if ActorEq(r.Actor, main) {
			out = append(out, r)
		}
	}
	return out
}

// ExcludeIncluded drops hits whose record is already in recordIDs.
// Ranks are left as computed over the full pool.
func ExcludeIncluded(hits []domain.RankedHit, recordIDs []string) []domain.RankedHit {
	existing := make(map[string]struct{}, len(recordIDs))
	for _, id := range recordIDs {
		existing[id] = struct{}{}
	}
	out := make([]domain.RankedHit, 0, len(hits))
	for _, h := range hits {
		if _, ok := existing[h.ID]; ok {
			continue
		}
		out = append(out, h)
	}
	return out
}
