package driving

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// CaseService manages cases and their record snapshots.
type CaseService interface {
	// Create ranks the record pool for the draft profile and stores a new
	// case whose snapshot holds the initial hits.
	Create(ctx context.Context, draft domain.CaseDraft) (*domain.Case, error)

	// Preview ranks the record pool for a draft without storing anything.
	Preview(ctx context.Context, draft domain.CaseDraft) ([]domain.RankedHit, error)

	// Get retrieves a case by ID.
	Get(ctx context.Context, id string) (*domain.Case, error)

	// List returns all cases, newest first.
	List(ctx context.Context) ([]domain.Case, error)

	// Records returns the snapshot records of a case in chronological order.
	Records(ctx context.Context, id string) ([]domain.Record, error)

	// Candidates returns ranked records not yet in the case snapshot.
	Candidates(ctx context.Context, id string, opts domain.RankOptions) ([]domain.RankedHit, error)

	// AddRecords merges records into the case snapshot.
	AddRecords(ctx context.Context, id string, recordIDs []string) (*domain.Case, error)

	// RemoveRecord drops a record from the case snapshot.
	RemoveRecord(ctx context.Context, id, recordID string) (*domain.Case, error)

	// Compact purges cached scores of records no longer in the snapshot.
	// Returns the number of purged entries.
	Compact(ctx context.Context, id string) (int, error)

	// Advise regenerates the case advisors, keeping the state of known items.
	Advise(ctx context.Context, id string) (*domain.Case, error)

	// SetAdvisorState changes the state of one advisor item.
	SetAdvisorState(ctx context.Context, id, advisorID string, state domain.AdvisorState) (*domain.Case, error)

	// AddStep appends a manual note to the case timeline.
	AddStep(ctx context.Context, id string, draft domain.StepDraft) (*domain.Case, error)

	// SetStatus changes the case status.
	SetStatus(ctx context.Context, id string, status domain.CaseStatus) (*domain.Case, error)

	// Delete removes a case. Its records are untouched.
	Delete(ctx context.Context, id string) error
}
