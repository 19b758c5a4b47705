package driving

import (
	"context"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

// RecordService manages incident records.
type RecordService interface {
	// Add validates a draft and saves it as a new record.
	Add(ctx context.Context, draft domain.RecordDraft) (*domain.Record, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// List returns all records in chronological order.
	List(ctx context.Context) ([]domain.Record, error)

	// References returns how many cases include the record.
	References(ctx context.Context, id string) (int, error)

	// Delete removes a record that no case references.
	// Returns *domain.RecordInUseError otherwise.
	Delete(ctx context.Context, id string) error
}
