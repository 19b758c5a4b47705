package snapshot

import (
	"sort"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Create materialises a snapshot from one ranking pass.
func Create(hits []domain.RankedHit) domain.Snapshot {
	s := domain.Snapshot{
		RecordIDs:            make([]string, 0, len(hits)),
		ScoreByRecordID:      make(map[string]float64, len(hits)),
		ComponentsByRecordID: make(map[string]domain.RankedComponents, len(hits)),
	}
	for _, h := range hits {
		if _, seen := s.ScoreByRecordID[h.ID]; seen {
			continue
		}
		s.RecordIDs = append(s.RecordIDs, h.ID)
		s.ScoreByRecordID[h.ID] = h.Score
		s.ComponentsByRecordID[h.ID] = h.Components
	}
	return s
}

// MergeAdd appends newIDs to the snapshot and refreshes its caches from
// reranked.
//
// Existing ids keep their order and new ids follow in the given order,
// skipping any already present. The score map is rebuilt over the merged
// ids: every id starts at 0 and is overwritten by its reranked score when
// present, so no included id ever lacks a score. The components map keeps
// prior entries and only overwrites ids found in reranked.
func MergeAdd(s domain.Snapshot, newIDs []string, reranked []domain.RankedHit) domain.Snapshot {
	ids := make([]string, 0, len(s.RecordIDs)+len(newIDs))
	seen := make(map[string]struct{}, cap(ids))
	for _, list := range [][]string{s.RecordIDs, newIDs} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	byID := make(map[string]domain.RankedHit, len(reranked))
	for _, h := range reranked {
		byID[h.ID] = h
	}

	scores := make(map[string]float64, len(ids))
	for _, id := range ids {
		scores[id] = 0
		if h, ok := byID[id]; ok {
			scores[id] = h.Score
		}
	}

	components := copyComponents(s.ComponentsByRecordID)
	for _, h := range reranked {
		components[h.ID] = h.Components
	}

	return domain.Snapshot{
		RecordIDs:            ids,
		ScoreByRecordID:      scores,
		ComponentsByRecordID: components,
	}
}

// RemoveOne drops id from the record list. Cache entries for id are left
// in place; Compact purges them.
func RemoveOne(s domain.Snapshot, id string) domain.Snapshot {
	ids := make([]string, 0, len(s.RecordIDs))
	for _, existing := range s.RecordIDs {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	return domain.Snapshot{
		RecordIDs:            ids,
		ScoreByRecordID:      copyScores(s.ScoreByRecordID),
		ComponentsByRecordID: copyComponents(s.ComponentsByRecordID),
	}
}

// Compact drops cache entries for ids that are no longer in the record list.
func Compact(s domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{
		RecordIDs:            append([]string{}, s.RecordIDs...),
		ScoreByRecordID:      make(map[string]float64, len(s.RecordIDs)),
		ComponentsByRecordID: make(map[string]domain.RankedComponents, len(s.RecordIDs)),
	}
	for _, id := range s.RecordIDs {
		if score, ok := s.ScoreByRecordID[id]; ok {
			out.ScoreByRecordID[id] = score
		}
		if c, ok := s.ComponentsByRecordID[id]; ok {
			out.ComponentsByRecordID[id] = c
		}
	}
	return out
}

// Orphans returns the ids that have cache entries but are not listed.
func Orphans(s domain.Snapshot) []string {
	listed := make(map[string]struct{}, len(s.RecordIDs))
	for _, id := range s.RecordIDs {
		listed[id] = struct{}{}
	}
	orphans := make(map[string]struct{})
	for id := range s.ScoreByRecordID {
		if _, ok := listed[id]; !ok {
			orphans[id] = struct{}{}
		}
	}
	for id := range s.ComponentsByRecordID {
		if _, ok := listed[id]; !ok {
			orphans[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(orphans))
	for id := range orphans {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func copyScores(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyComponents(m map[string]domain.RankedComponents) map[string]domain.RankedComponents {
	out := make(map[string]domain.RankedComponents, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
