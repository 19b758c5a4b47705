package driven

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// RankRequest is one ranking call for a case.
type RankRequest struct {
	// CaseID scopes the request. Empty for cases not yet created.
	CaseID  string
	Records []domain.Record
	Profile domain.CaseProfile
	Options domain.RankOptions
}

// RelevanceProvider scores a record pool against a case profile.
// The call either returns fully or fails; there are no partial results.
type RelevanceProvider interface {
	// Rank returns the included hits sorted ascending by rank.
	Rank(ctx context.Context, req RankRequest) ([]domain.RankedHit, error)
}

// AdviseRequest is one advisory call for a case.
type AdviseRequest struct {
	Records []domain.Record
	Case    domain.Case
}

// AdvisorProvider generates guidance items for a case.
// Its rules are opaque to the core.
type AdvisorProvider interface {
	Advise(ctx context.Context, req AdviseRequest) ([]domain.AdvisorItem, error)
}

// ReportRenderer turns a report payload into a document.
type ReportRenderer interface {
	// Format names the output, e.g. "text" or "json".
	Format() string

	Render(ctx context.Context, payload *domain.ReportPayload) ([]byte, error)
}
