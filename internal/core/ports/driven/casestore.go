package driven

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// CaseStore persists cases together with their snapshots, steps and advisors.
type CaseStore interface {
	// Save stores a case. Creates if new, replaces if exists.
	// The whole case, snapshot included, is written atomically.
	Save(ctx context.Context, c *domain.Case) error

	// SaveSnapshot replaces the snapshot of an existing case atomically.
	// Either the full snapshot is persisted or nothing changes.
	SaveSnapshot(ctx context.Context, caseID string, snapshot domain.Snapshot) error

	// Get retrieves a case by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Case, error)

	// List returns all cases, newest first.
	List(ctx context.Context) ([]domain.Case, error)

	// Delete removes a case by ID.
	Delete(ctx context.Context, id string) error

	// CountReferencing returns how many cases include the record in their snapshot.
	CountReferencing(ctx context.Context, recordID string) (int, error)
}
