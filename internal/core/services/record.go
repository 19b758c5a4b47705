package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
	"github.com/custodia-labs/casefile/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// RecordService manages incident records.
type RecordService struct {
	recordStore driven.RecordStore
	caseStore   driven.CaseStore
	now         func() time.Time
}

// NewRecordService creates a new record service.
func NewRecordService(recordStore driven.RecordStore, caseStore driven.CaseStore) *RecordService {
	return &RecordService{
		recordStore: recordStore,
		caseStore:   caseStore,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for CreatedAt.
func (s *RecordService) SetClock(now func() time.Time) {
	s.now = now
}

// Add validates a draft and saves it as a new record.
func (s *RecordService) Add(ctx context.Context, draft domain.RecordDraft) (*domain.Record, error) {
	draft, err := validateRecordDraft(draft)
	if err != nil {
		return nil, err
	}

	record := &domain.Record{
		ID:          newID(recordIDPrefix),
		Timestamp:   draft.Timestamp,
		Actor:       draft.Actor,
		Related:     draft.Related,
		Place:       draft.Place,
		Summary:     draft.Summary,
		Sensitivity: draft.Sensitivity,
		StoreType:   draft.StoreType,
		Extra:       draft.Extra,
		CreatedAt:   s.now(),
	}
	if draft.Place == domain.OtherTag {
		record.PlaceOther = draft.PlaceOther
	}
	if draft.StoreType == domain.OtherTag {
		record.StoreOther = draft.StoreOther
	}

	if err := s.recordStore.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}
	logger.Debug("Saved record %s (%s)", record.ID, record.Actor.Short())
	return record, nil
}

// Get retrieves a record by ID.
func (s *RecordService) Get(ctx context.Context, id string) (*domain.Record, error) {
	return s.recordStore.Get(ctx, id)
}

// List returns all records in chronological order.
func (s *RecordService) List(ctx context.Context) ([]domain.Record, error) {
	return s.recordStore.List(ctx)
}

// References returns how many cases include the record.
func (s *RecordService) References(ctx context.Context, id string) (int, error) {
	return s.caseStore.CountReferencing(ctx, id)
}

// Delete removes a record that no case references.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if _, err := s.recordStore.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.caseStore.CountReferencing(ctx, id)
	if err != nil {
		return fmt.Errorf("count referencing cases: %w", err)
	}
	if n > 0 {
		logger.Debug("Delete of record %s blocked: %d case(s)", id, n)
		return &domain.RecordInUseError{RecordID: id, CaseCount: n}
	}

	if err := s.recordStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
