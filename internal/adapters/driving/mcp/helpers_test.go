package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/local"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/rules"
	"github.com/custodia-labs/casefile/internal/adapters/driven/render"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/services"
)

var hong = domain.ActorRef{Type: domain.ActorStudent, Name: "홍길동"}

type env struct {
	server  *Server
	records *memory.RecordStore
	cases   *services.CaseService
	caseID  string
}

// newEnv wires the real services over memory stores and creates one case
// whose snapshot holds r1 and r2.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	records := memory.NewRecordStore()
	caseStore := memory.NewCaseStore()
	caseSvc := services.NewCaseService(caseStore, records, local.New(nil), rules.New())
	reportSvc := services.NewReportService(caseStore, records)

	e := &env{records: records, cases: caseSvc}
	e.seed(t, "r1", 1, "복도에서 언쟁")
	e.seed(t, "r2", 2, "상담 진행")

	c, err := caseSvc.Create(ctx, domain.CaseDraft{Actors: []domain.ActorRef{hong}, Query: "언쟁"})
	require.NoError(t, err)
	e.caseID = c.ID

	e.server, err = NewServer(&Ports{
		Case:      caseSvc,
		Report:    reportSvc,
		Renderers: []driven.ReportRenderer{render.NewText(nil), render.NewJSON()},
	})
	require.NoError(t, err)
	return e
}

func (e *env) seed(t *testing.T, id string, day int, summary string) {
	t.Helper()
	require.NoError(t, e.records.Save(context.Background(), &domain.Record{
		ID:          id,
		Timestamp:   time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC),
		Actor:       hong,
		Place:       "복도",
		Summary:     summary,
		Sensitivity: domain.LV2,
		StoreType:   "문서",
	}))
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
