package snapshot

import (
	"math"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// Verify checks the persisted-snapshot invariants and returns the first
// violation found, or nil.
func Verify(s domain.Snapshot) error {
	seen := make(map[string]struct{}, len(s.RecordIDs))
	for _, id := range s.RecordIDs {
		if id == "" {
			return &domain.ConsistencyViolation{RecordID: id, Reason: "empty record id"}
		}
		if _, dup := seen[id]; dup {
			return &domain.ConsistencyViolation{RecordID: id, Reason: "duplicate record id"}
		}
		seen[id] = struct{}{}

		score, ok := s.ScoreByRecordID[id]
		if !ok {
			return &domain.ConsistencyViolation{RecordID: id, Reason: "missing score"}
		}
		if score < 0 || math.IsNaN(score) || math.IsInf(score, 0) {
			return &domain.ConsistencyViolation{RecordID: id, Reason: "invalid score"}
		}
		if c, ok := s.ComponentsByRecordID[id]; ok {
			if c.TextSim < 0 || c.TextSim > 1 {
				return &domain.ConsistencyViolation{RecordID: id, Reason: "text similarity out of range"}
			}
			if c.KeywordScore < 0 || c.ActorScore < 0 || c.RelatedScore < 0 {
				return &domain.ConsistencyViolation{RecordID: id, Reason: "negative score component"}
			}
		}
	}
	return nil
}
