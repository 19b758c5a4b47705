package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// Ensure CaseStore implements the interface.
var _ driven.CaseStore = (*CaseStore)(nil)

// CaseStore is an in-memory implementation of driven.CaseStore.
// Cases are deep-copied on the way in and out so callers never share state.
type CaseStore struct {
	mu    sync.RWMutex
	cases map[string]domain.Case
}

// NewCaseStore creates a new in-memory case store.
func NewCaseStore() *CaseStore {
	return &CaseStore{
		cases: make(map[string]domain.Case),
	}
}

// Save stores or replaces a case.
func (s *CaseStore) Save(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = cloneCase(*c)
	return nil
}

// SaveSnapshot replaces the snapshot of an existing case.
func (s *CaseStore) SaveSnapshot(_ context.Context, caseID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Snapshot = cloneSnapshot(snap)
	s.cases[caseID] = c
	return nil
}

// Get retrieves a case by ID.
func (s *CaseStore) Get(_ context.Context, id string) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneCase(c)
	return &out, nil
}

// List returns all cases, newest first.
func (s *CaseStore) List(_ context.Context) ([]domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		result = append(result, cloneCase(c))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a case.
func (s *CaseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cases, id)
	return nil
}

// CountReferencing returns how many cases include the record.
func (s *CaseStore) CountReferencing(_ context.Context, recordID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.cases {
		if c.Snapshot.Contains(recordID) {
			n++
		}
	}
	return n, nil
}

func cloneCase(c domain.Case) domain.Case {
	c.Profile.Actors = append([]domain.ActorRef(nil), c.Profile.Actors...)
	c.Snapshot = cloneSnapshot(c.Snapshot)
	c.Steps = append([]domain.Step(nil), c.Steps...)
	advisors := make([]domain.AdvisorItem, len(c.Advisors))
	for i, a := range c.Advisors {
		a.Tags = append([]string(nil), a.Tags...)
		advisors[i] = a
	}
	c.Advisors = advisors
	return c
}

func cloneSnapshot(s domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{
		RecordIDs:            append([]string{}, s.RecordIDs...),
		ScoreByRecordID:      make(map[string]float64, len(s.ScoreByRecordID)),
		ComponentsByRecordID: make(map[string]domain.RankedComponents, len(s.ComponentsByRecordID)),
	}
	for k, v := range s.ScoreByRecordID {
		out.ScoreByRecordID[k] = v
	}
	for k, v := range s.ComponentsByRecordID {
		out.ComponentsByRecordID[k] = v
	}
	return out
}
