package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func TestReportService_Build(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	dup := record("r1b", 1, hong, "복도에서   언쟁")
	dup.Timestamp = dup.Timestamp.Add(3 * time.Hour)
	f.seed(t,
		record("r1", 1, hong, "복도에서 언쟁"),
		dup,
		record("r2", 2, hong, "상담 진행", mother),
	)
	c, err := f.caseSvc.Create(ctx, domain.CaseDraft{Actors: []domain.ActorRef{hong, mother}, Query: "언쟁"})
	require.NoError(t, err)
	require.Len(t, c.Snapshot.RecordIDs, 3)

	p, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, c.ID, p.CaseID)
	assert.Equal(t, fixedNow, p.GeneratedAt)
	assert.Contains(t, p.Title, c.Title)
	assert.Len(t, p.ContentHash, 64)
	assert.Contains(t, p.Overview, "당사자(Actor): 학생 홍길동, 학부모 홍부모")
	assert.Contains(t, p.Overview, "기록 포함 기준: 스냅샷에 명시된 기록")

	require.Len(t, p.Facts, 2)
	assert.Equal(t, "2025-06-01", p.Facts[0].Date)
	assert.Len(t, p.Facts[0].Lines, 1)
	assert.Contains(t, p.Facts[0].Lines[0], "학생 홍길동(복도): 복도에서 언쟁")

	factLines := 0
	for _, fb := range p.Facts {
		factLines += len(fb.Lines) + fb.Overflow
	}
	recordRows := 0
	for _, row := range p.Rows {
		if row.Kind == domain.RowKindRecord {
			recordRows++
		}
	}
	assert.Equal(t, 2, recordRows)
	assert.Equal(t, recordRows, factLines)
	assert.Equal(t, "r1", p.Rows[0].ID)
	assert.Equal(t, "스냅샷 포함 (점수 4.50)", p.Rows[0].Reason)
}

func TestReportService_Build_HashIsStable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, record("r1", 1, hong, "복도에서 언쟁"))
	c, err := f.caseSvc.Create(ctx, domain.CaseDraft{Actors: []domain.ActorRef{hong}})
	require.NoError(t, err)

	a, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)
	b, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ContentHash, b.ContentHash)

	f.report.SetClock(func() time.Time { return fixedNow.Add(time.Minute) })
	later, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ContentHash, later.ContentHash)
}

func TestReportService_Build_FactOverflow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		r := record(fmt.Sprintf("r%02d", i), 3, hong, fmt.Sprintf("기록 %d", i))
		r.Timestamp = r.Timestamp.Add(time.Duration(i) * time.Minute)
		f.seed(t, r)
	}
	c, err := f.caseSvc.Create(ctx, domain.CaseDraft{Actors: []domain.ActorRef{hong}})
	require.NoError(t, err)

	p, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)

	require.Len(t, p.Facts, 1)
	assert.Len(t, p.Facts[0].Lines, 8)
	assert.Equal(t, 2, p.Facts[0].Overflow)
	assert.Len(t, p.Rows, 10)
}

func TestReportService_Build_StepsAndAdvisories(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, record("r1", 1, hong, "복도에서 언쟁"))
	c, err := f.caseSvc.Create(ctx, domain.CaseDraft{Actors: []domain.ActorRef{hong}})
	require.NoError(t, err)
	require.Len(t, c.Advisors, 3)

	_, err = f.caseSvc.SetAdvisorState(ctx, c.ID, c.Advisors[0].ID, domain.AdvisorDismissed)
	require.NoError(t, err)
	_, err = f.caseSvc.AddStep(ctx, c.ID, domain.StepDraft{
		Name: "관리자 보고",
		Note: "교감 면담",
		TS:   time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	p, err := f.report.Build(ctx, c.ID)
	require.NoError(t, err)

	assert.Len(t, p.Advisories, 2)
	assert.Equal(t, "[WARN] 커뮤니케이션 - 추가 소통은 가능한 한 공식 채널/문서로 남기고, 감정 표현은 줄이세요.", p.Advisories[0])

	require.Len(t, p.Rows, 2)
	assert.Equal(t, domain.RowKindStep, p.Rows[0].Kind)
	assert.Equal(t, "관리자 보고 - 교감 면담", p.Rows[0].Summary)
	assert.Equal(t, domain.RowKindRecord, p.Rows[1].Kind)
}

func TestReportService_Build_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.report.Build(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "r1", shortID("r1"))
	assert.Equal(t, "REC_…cdef", shortID("REC_0123456789abcdef"))
}
