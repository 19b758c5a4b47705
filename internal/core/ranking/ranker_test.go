package ranking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func TestRank_MainActorRanksFirst(t *testing.T) {
	profile := domain.CaseProfile{Actors: []domain.ActorRef{hong}}
	records := []domain.Record{
		rec("r2", kim, "무관한 기록", day(2)),
		rec("r3", teacher, "담임 상담", day(3), hong),
		rec("r1", hong, "복도 언쟁", day(1)),
	}

	hits := Rank(records, profile, DefaultParams())

	require.Len(t, hits, 2)
	assert.Equal(t, "r1", hits[0].ID)
	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, 2.5, hits[0].Score)
	assert.Equal(t, []string{"main-actor match"}, hits[0].Reasons)
	assert.Equal(t, "r3", hits[1].ID)
	assert.Equal(t, 2, hits[1].Rank)
	assert.Equal(t, 1.0, hits[1].Score)
	assert.Equal(t, "r1", hits[0].Record.ID)
}

func TestRank_EmptyPool(t *testing.T) {
	hits := Rank(nil, domain.CaseProfile{Actors: []domain.ActorRef{hong}}, DefaultParams())

	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestRank_NoActorsNoQuery(t *testing.T) {
	records := []domain.Record{
		rec("b", hong, "기록", day(1)),
		rec("a", kim, "기록", day(2)),
	}

	t.Run("default threshold excludes everything", func(t *testing.T) {
		hits := Rank(records, domain.CaseProfile{}, DefaultParams())
		assert.Empty(t, hits)
	})

	t.Run("zero threshold includes everything", func(t *testing.T) {
		params := DefaultParams()
		params.MinScore = 0

		hits := Rank(records, domain.CaseProfile{}, params)

		assert.Equal(t, []string{"a", "b"}, ids(hits))
		for _, h := range hits {
			assert.Equal(t, 0.0, h.Score)
			assert.Empty(t, h.Reasons)
		}
	})
}

func TestRank_TieBreakByID(t *testing.T) {
	profile := domain.CaseProfile{Actors: []domain.ActorRef{hong}}
	records := []domain.Record{
		rec("REC_c", hong, "x", day(1)),
		rec("REC_a", hong, "y", day(2)),
		rec("REC_b", hong, "z", day(3)),
	}

	hits := Rank(records, profile, DefaultParams())

	assert.Equal(t, []string{"REC_a", "REC_b", "REC_c"}, ids(hits))
}

func TestRank_NonMainActorNeedsKeyword(t *testing.T) {
	profile := domain.CaseProfile{
		Actors: []domain.ActorRef{hong, kim},
		Query:  "폭력",
	}
	records := []domain.Record{
		rec("r1", kim, "상담 진행", day(1)),
		rec("r2", kim, "폭력 정황 상담", day(2)),
		rec("r3", hong, "상담 진행", day(3)),
	}

	hits := Rank(records, profile, DefaultParams())

	assert.Equal(t, []string{"r2", "r3"}, ids(hits))
	assert.Equal(t, 4.5, hits[0].Score)
}

func TestRank_KeywordOnlyRecord(t *testing.T) {
	profile := domain.CaseProfile{Query: "복도 언쟁"}
	records := []domain.Record{
		rec("r1", kim, "복도에서 언쟁", day(1)),
		rec("r2", kim, "복도 청소", day(2)),
		rec("r3", kim, "급식 지도", day(3)),
	}

	hits := Rank(records, profile, DefaultParams())

	require.Equal(t, []string{"r1", "r2"}, ids(hits))
	assert.Equal(t, 2.0, hits[0].Score)
	assert.Equal(t, 1.0, hits[1].Score)
	assert.Equal(t, []string{"keyword 1/2"}, hits[1].Reasons)
}

func TestRank_OnlyMainActor(t *testing.T) {
	profile := domain.CaseProfile{
		Actors:        []domain.ActorRef{hong, mother},
		OnlyMainActor: true,
	}
	records := []domain.Record{
		rec("r1", hong, "기록", day(1)),
		rec("r2", mother, "전화 민원", day(2), hong),
	}

	hits := Rank(records, profile, DefaultParams())

	assert.Equal(t, []string{"r1"}, ids(hits))
}

func TestRank_OnlyMainActorWithoutActors(t *testing.T) {
	params := DefaultParams()
	params.MinScore = 0
	records := []domain.Record{rec("r1", hong, "기록", day(1))}

	hits := Rank(records, domain.CaseProfile{OnlyMainActor: true}, params)

	assert.Equal(t, []string{"r1"}, ids(hits))
}

func TestRank_TimeBounds(t *testing.T) {
	profile := domain.CaseProfile{
		Actors:   []domain.ActorRef{hong},
		TimeFrom: day(5),
		TimeTo:   day(10),
	}
	undated := rec("r4", hong, "일자 미상", day(1))
	undated.Timestamp = time.Time{}
	records := []domain.Record{
		rec("r1", hong, "이전", day(1)),
		rec("r2", hong, "기간 내", day(7)),
		rec("r3", hong, "이후", day(20)),
		undated,
	}

	hits := Rank(records, profile, DefaultParams())

	assert.Equal(t, []string{"r2", "r4"}, ids(hits))
}

func TestRank_LimitTruncates(t *testing.T) {
	profile := domain.CaseProfile{Actors: []domain.ActorRef{hong}}
	records := []domain.Record{
		rec("r1", hong, "a", day(1)),
		rec("r2", hong, "b", day(2)),
		rec("r3", hong, "c", day(3)),
		rec("r4", hong, "d", day(4)),
	}
	params := DefaultParams()
	params.Limit = 2

	hits := Rank(records, profile, params)

	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, 2, hits[1].Rank)
}

func TestRank_RanksAreSequential(t *testing.T) {
	profile := domain.CaseProfile{Actors: []domain.ActorRef{hong, mother}, Query: "언쟁"}
	records := []domain.Record{
		rec("r1", hong, "언쟁", day(1), mother),
		rec("r2", hong, "기록", day(2)),
		rec("r3", teacher, "통화", day(3), mother),
		rec("r4", teacher, "언쟁 목격", day(4)),
	}

	hits := Rank(records, profile, DefaultParams())

	for i, h := range hits {
		assert.Equal(t, i+1, h.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, hits[i-1].Score, h.Score)
		}
	}
}

func TestRank_DeterministicUnderShuffle(t *testing.T) {
	profile := domain.CaseProfile{Actors: []domain.ActorRef{hong, mother}, Query: "복도 언쟁"}
	records := []domain.Record{
		rec("r1", hong, "복도 언쟁", day(1)),
		rec("r2", hong, "복도", day(2), mother),
		rec("r3", mother, "언쟁 민원", day(3)),
		rec("r4", teacher, "목격", day(4), hong),
		rec("r5", kim, "복도 언쟁 목격", day(5)),
		rec("r6", kim, "급식", day(6)),
	}

	want := ids(Rank(records, profile, DefaultParams()))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, ids(Rank(shuffled, profile, DefaultParams())))
	}
}

func TestExcludeIncluded(t *testing.T) {
	hits := []domain.RankedHit{{ID: "a", Rank: 1}, {ID: "b", Rank: 2}, {ID: "c", Rank: 3}}

	out := ExcludeIncluded(hits, []string{"b"})

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, 3, out[1].Rank)
	assert.Len(t, hits, 3)
}
