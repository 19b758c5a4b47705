package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/local"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/rules"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

var (
	fixedNow = time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)

	hong   = domain.ActorRef{Type: domain.ActorStudent, Name: "홍길동"}
	kim    = domain.ActorRef{Type: domain.ActorStudent, Name: "김철수"}
	mother = domain.ActorRef{Type: domain.ActorParent, Name: "홍부모"}
)

func clock() time.Time { return fixedNow }

type fixture struct {
	records *memory.RecordStore
	cases   *memory.CaseStore
	caseSvc *CaseService
	recSvc  *RecordService
	report  *ReportService
}

func newFixture(t *testing.T, provider driven.RelevanceProvider) *fixture {
	t.Helper()
	f := &fixture{
		records: memory.NewRecordStore(),
		cases:   memory.NewCaseStore(),
	}
	if provider == nil {
		provider = local.New(nil)
	}
	f.caseSvc = NewCaseService(f.cases, f.records, provider, rules.New())
	f.caseSvc.SetClock(clock)
	f.recSvc = NewRecordService(f.records, f.cases)
	f.recSvc.SetClock(clock)
	f.report = NewReportService(f.cases, f.records)
	f.report.SetClock(clock)
	return f
}

func (f *fixture) seed(t *testing.T, records ...domain.Record) {
	t.Helper()
	for i := range records {
		require.NoError(t, f.records.Save(context.Background(), &records[i]))
	}
}

func record(id string, day int, actor domain.ActorRef, summary string, related ...domain.ActorRef) domain.Record {
	return domain.Record{
		ID:          id,
		Timestamp:   time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC),
		Actor:       actor,
		Related:     related,
		Place:       "복도",
		Summary:     summary,
		Sensitivity: domain.LV2,
		StoreType:   "문서",
	}
}

// failingProvider always fails.
type failingProvider struct{ calls atomic.Int32 }

var errProviderDown = errors.New("provider down")

func (p *failingProvider) Rank(context.Context, driven.RankRequest) ([]domain.RankedHit, error) {
	p.calls.Add(1)
	return nil, errProviderDown
}

// switchProvider delegates to the local engine until failing is set.
type switchProvider struct {
	failing atomic.Bool
	engine  *local.Engine
}

func (p *switchProvider) Rank(ctx context.Context, req driven.RankRequest) ([]domain.RankedHit, error) {
	if p.failing.Load() {
		return nil, errProviderDown
	}
	return p.engine.Rank(ctx, req)
}

// stubProvider returns a canned response.
type stubProvider struct{ hits []domain.RankedHit }

func (p *stubProvider) Rank(context.Context, driven.RankRequest) ([]domain.RankedHit, error) {
	return p.hits, nil
}

// blockingProvider blocks its first call until the context ends and
// answers later calls with the local engine.
type blockingProvider struct {
	calls   atomic.Int32
	started chan struct{}
	engine  *local.Engine
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{started: make(chan struct{}), engine: local.New(nil)}
}

func (p *blockingProvider) Rank(ctx context.Context, req driven.RankRequest) ([]domain.RankedHit, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.engine.Rank(ctx, req)
}

// failingAdvisor always fails.
type failingAdvisor struct{}

func (failingAdvisor) Advise(context.Context, driven.AdviseRequest) ([]domain.AdvisorItem, error) {
	return nil, errProviderDown
}
