package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func testCase(id string, created time.Time, recordIDs ...string) *domain.Case {
	scores := make(map[string]float64, len(recordIDs))
	for _, rid := range recordIDs {
		scores[rid] = 1
	}
	return &domain.Case{
		ID:     id,
		Title:  "복도 언쟁",
		Status: domain.CaseStatusOpen,
		Profile: domain.CaseProfile{
			Actors:     []domain.ActorRef{{Type: domain.ActorStudent, Name: "홍길동"}},
			MaxResults: 80,
		},
		Snapshot: domain.Snapshot{
			RecordIDs:            recordIDs,
			ScoreByRecordID:      scores,
			ComponentsByRecordID: map[string]domain.RankedComponents{},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestCaseStore_SaveAndGet(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, testCase("c1", now, "r1", "r2")))

	got, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "복도 언쟁", got.Title)
	assert.Equal(t, []string{"r1", "r2"}, got.Snapshot.RecordIDs)
}

func TestCaseStore_Get_NotFound(t *testing.T) {
	_, err := NewCaseStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCaseStore_Get_IsolatedFromCaller(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()
	c := testCase("c1", time.Now(), "r1")
	require.NoError(t, store.Save(ctx, c))

	c.Snapshot.ScoreByRecordID["r1"] = 99
	got, _ := store.Get(ctx, "c1")
	got.Snapshot.RecordIDs[0] = "changed"

	again, _ := store.Get(ctx, "c1")
	assert.Equal(t, 1.0, again.Snapshot.ScoreByRecordID["r1"])
	assert.Equal(t, "r1", again.Snapshot.RecordIDs[0])
}

func TestCaseStore_SaveSnapshot(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testCase("c1", time.Now(), "r1")))

	next := domain.Snapshot{
		RecordIDs:       []string{"r1", "r2"},
		ScoreByRecordID: map[string]float64{"r1": 2, "r2": 0},
	}
	require.NoError(t, store.SaveSnapshot(ctx, "c1", next))

	got, _ := store.Get(ctx, "c1")
	assert.Equal(t, []string{"r1", "r2"}, got.Snapshot.RecordIDs)
	assert.Equal(t, "복도 언쟁", got.Title)

	assert.ErrorIs(t, store.SaveSnapshot(ctx, "missing", next), domain.ErrNotFound)
}

func TestCaseStore_List_NewestFirst(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()
	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testCase("old", base)))
	require.NoError(t, store.Save(ctx, testCase("new", base.Add(time.Hour))))

	got, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
}

func TestCaseStore_CountReferencing(t *testing.T) {
	store := NewCaseStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Save(ctx, testCase("c1", now, "r1", "r2")))
	require.NoError(t, store.Save(ctx, testCase("c2", now, "r2")))

	n1, _ := store.CountReferencing(ctx, "r1")
	n2, _ := store.CountReferencing(ctx, "r2")
	n3, _ := store.CountReferencing(ctx, "r3")

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)
	assert.Equal(t, 0, n3)

	require.NoError(t, store.Delete(ctx, "c2"))
	n2, _ = store.CountReferencing(ctx, "r2")
	assert.Equal(t, 1, n2)
}
