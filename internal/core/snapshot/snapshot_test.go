package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func hit(id string, score float64) domain.RankedHit {
	return domain.RankedHit{
		ID:    id,
		Score: score,
		Components: domain.RankedComponents{
			ActorScore: score,
			ActorMatch: score > 0,
			WActor:     2.5,
		},
	}
}

func TestCreate(t *testing.T) {
	s := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)})

	assert.Equal(t, []string{"a", "b"}, s.RecordIDs)
	assert.Equal(t, map[string]float64{"a": 2.5, "b": 1.0}, s.ScoreByRecordID)
	assert.Len(t, s.ComponentsByRecordID, 2)
	assert.NoError(t, Verify(s))
}

func TestCreate_Empty(t *testing.T) {
	s := Create(nil)

	assert.NotNil(t, s.RecordIDs)
	assert.Empty(t, s.RecordIDs)
	assert.NotNil(t, s.ScoreByRecordID)
	assert.NoError(t, Verify(s))
}

func TestMergeAdd_AppendsInOrder(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)})

	got := MergeAdd(base, []string{"d", "a", "c", "d"}, []domain.RankedHit{hit("c", 3.0), hit("a", 2.0)})

	assert.Equal(t, []string{"a", "b", "d", "c"}, got.RecordIDs)
	assert.Equal(t, map[string]float64{"a": 2.0, "b": 0, "c": 3.0, "d": 0}, got.ScoreByRecordID)
}

func TestMergeAdd_Superset(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0), hit("c", 1.0)})

	got := MergeAdd(base, []string{"x"}, nil)

	assert.Subset(t, got.RecordIDs, base.RecordIDs)
	for _, id := range got.RecordIDs {
		_, ok := got.ScoreByRecordID[id]
		assert.True(t, ok, "missing score for %s", id)
	}
	require.NoError(t, Verify(got))
}

func TestMergeAdd_ComponentsShallowMerge(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)})
	fresh := hit("a", 4.0)
	fresh.Components.KeywordScore = 1.5

	got := MergeAdd(base, nil, []domain.RankedHit{fresh})

	assert.Equal(t, 1.5, got.ComponentsByRecordID["a"].KeywordScore)
	assert.Equal(t, base.ComponentsByRecordID["b"], got.ComponentsByRecordID["b"])
	assert.Equal(t, 0.0, got.ScoreByRecordID["b"])
}

func TestMergeAdd_PurgesOrphanScores(t *testing.T) {
	base := RemoveOne(Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)}), "b")

	got := MergeAdd(base, nil, nil)

	assert.NotContains(t, got.ScoreByRecordID, "b")
	assert.Contains(t, got.ComponentsByRecordID, "b")
}

func TestMergeAdd_EmptyIsIdempotent(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)})
	reranked := []domain.RankedHit{hit("a", 2.0)}

	first := MergeAdd(base, nil, reranked)
	second := MergeAdd(first, nil, reranked)

	assert.Equal(t, base.RecordIDs, first.RecordIDs)
	assert.Equal(t, first.RecordIDs, second.RecordIDs)
	assert.Equal(t, first.ScoreByRecordID, second.ScoreByRecordID)
	assert.Equal(t, MergeAdd(base, []string{}, []domain.RankedHit{}).RecordIDs, base.RecordIDs)
}

func TestMergeAdd_DoesNotMutateInput(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5)})
	before := Create([]domain.RankedHit{hit("a", 2.5)})

	_ = MergeAdd(base, []string{"b"}, []domain.RankedHit{hit("a", 9), hit("b", 1)})

	assert.Equal(t, before, base)
}

func TestRemoveOne(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0), hit("c", 1.0)})

	got := RemoveOne(base, "b")

	assert.Equal(t, []string{"a", "c"}, got.RecordIDs)
	assert.Contains(t, got.ScoreByRecordID, "b")
	assert.Contains(t, got.ComponentsByRecordID, "b")
	assert.Equal(t, []string{"a", "b", "c"}, base.RecordIDs)
	assert.Equal(t, []string{"b"}, Orphans(got))
}

func TestRemoveOne_Unknown(t *testing.T) {
	base := Create([]domain.RankedHit{hit("a", 2.5)})

	got := RemoveOne(base, "zzz")

	assert.Equal(t, base, got)
}

func TestCompact(t *testing.T) {
	s := RemoveOne(Create([]domain.RankedHit{hit("a", 2.5), hit("b", 1.0)}), "a")

	got := Compact(s)

	assert.Equal(t, []string{"b"}, got.RecordIDs)
	assert.Equal(t, map[string]float64{"b": 1.0}, got.ScoreByRecordID)
	assert.Len(t, got.ComponentsByRecordID, 1)
	assert.Empty(t, Orphans(got))
	assert.Len(t, Orphans(s), 1)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		s      domain.Snapshot
		reason string
	}{
		{
			name: "duplicate id",
			s: domain.Snapshot{
				RecordIDs:       []string{"a", "a"},
				ScoreByRecordID: map[string]float64{"a": 1},
			},
			reason: "duplicate record id",
		},
		{
			name: "missing score",
			s: domain.Snapshot{
				RecordIDs:       []string{"a", "b"},
				ScoreByRecordID: map[string]float64{"a": 1},
			},
			reason: "missing score",
		},
		{
			name: "negative score",
			s: domain.Snapshot{
				RecordIDs:       []string{"a"},
				ScoreByRecordID: map[string]float64{"a": -1},
			},
			reason: "invalid score",
		},
		{
			name: "text similarity above one",
			s: domain.Snapshot{
				RecordIDs:            []string{"a"},
				ScoreByRecordID:      map[string]float64{"a": 1},
				ComponentsByRecordID: map[string]domain.RankedComponents{"a": {TextSim: 1.5}},
			},
			reason: "text similarity out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.s)

			var cv *domain.ConsistencyViolation
			require.ErrorAs(t, err, &cv)
			assert.Equal(t, tt.reason, cv.Reason)
			assert.ErrorIs(t, err, domain.ErrInconsistentSnapshot)
		})
	}
}
