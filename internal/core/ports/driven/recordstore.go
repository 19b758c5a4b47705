package driven

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// RecordStore persists records.
// Records are insert-only; there is no update.
type RecordStore interface {
	// Save inserts a record. Returns domain.ErrAlreadyExists if the ID is taken.
	Save(ctx context.Context, record *domain.Record) error

	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// GetMany retrieves records by ID, skipping unknown IDs.
	// Results follow the order of ids.
	GetMany(ctx context.Context, ids []string) ([]domain.Record, error)

	// List returns all records ordered by timestamp, then ID.
	List(ctx context.Context) ([]domain.Record, error)

	// Delete removes a record by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
