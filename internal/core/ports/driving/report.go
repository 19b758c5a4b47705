package driving

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// ReportService builds evidence reports for cases.
type ReportService interface {
	// Build assembles the report payload for a case.
	Build(ctx context.Context, caseID string) (*domain.ReportPayload, error)
}
