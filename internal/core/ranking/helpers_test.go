package ranking

import (
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

var (
	hong    = domain.ActorRef{Type: domain.ActorStudent, Name: "홍길동"}
	kim     = domain.ActorRef{Type: domain.ActorStudent, Name: "김철수"}
	mother  = domain.ActorRef{Type: domain.ActorParent, Name: "1번 모"}
	teacher = domain.ActorRef{Type: domain.ActorColleague, Name: "이선생"}
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 9, 0, 0, 0, time.UTC)
}

func rec(id string, actor domain.ActorRef, summary string, ts time.Time, related ...domain.ActorRef) domain.Record {
	return domain.Record{
		ID:          id,
		Timestamp:   ts,
		Actor:       actor,
		Related:     related,
		Place:       "교실",
		Summary:     summary,
		Sensitivity: domain.LV2,
		StoreType:   "문서",
	}
}

func ptr(f float64) *float64 {
	return &f
}

func ids(hits []domain.RankedHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}
