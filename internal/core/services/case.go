package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/evidence"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
	"github.com/custodia-labs/casefile/internal/core/ranking"
	"github.com/custodia-labs/casefile/internal/core/snapshot"
	"github.com/custodia-labs/casefile/internal/logger"
)

// Ensure CaseService implements the interface.
var _ driving.CaseService = (*CaseService)(nil)

// titleQueryRunes is how much of the query an auto-generated title shows.
const titleQueryRunes = 12

// CaseService manages cases and their record snapshots.
type CaseService struct {
	caseStore   driven.CaseStore
	recordStore driven.RecordStore
	relevance   driven.RelevanceProvider
	advisor     driven.AdvisorProvider
	gate        *caseGate
	now         func() time.Time
}

// NewCaseService creates a new case service.
// The advisor parameter is optional (can be nil).
func NewCaseService(
	caseStore driven.CaseStore,
	recordStore driven.RecordStore,
	relevance driven.RelevanceProvider,
	advisor driven.AdvisorProvider,
) *CaseService {
	return &CaseService{
		caseStore:   caseStore,
		recordStore: recordStore,
		relevance:   relevance,
		advisor:     advisor,
		gate:        newCaseGate(),
		now:         time.Now,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *CaseService) SetClock(now func() time.Time) {
	s.now = now
}

// Create ranks the record pool for the draft profile and stores a new case
// whose snapshot holds the initial hits. A provider failure yields a case
// with an empty snapshot.
func (s *CaseService) Create(ctx context.Context, draft domain.CaseDraft) (*domain.Case, error) {
	logger.Section("Create Case")

	draft, err := validateCaseDraft(draft)
	if err != nil {
		return nil, err
	}

	pool, err := s.recordStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	profile := draft.Profile()
	hits, err := rankBoundary(ctx, s.gate, s.relevance, driven.RankRequest{Records: pool, Profile: profile})
	if err != nil {
		degrade(err)
		hits = nil
	}

	now := s.now()
	c := &domain.Case{
		ID:        newID(caseIDPrefix),
		Title:     draft.Title,
		Status:    domain.CaseStatusOpen,
		Profile:   profile,
		Snapshot:  snapshot.Create(hits),
		Steps:     []domain.Step{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Title == "" {
		c.Title = autoTitle(profile)
	}

	c.Advisors = s.advise(ctx, c, pool)

	if err := s.caseStore.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	logger.Info("Created case %s with %d records", c.ID, len(c.Snapshot.RecordIDs))
	return c, nil
}

// Preview ranks the record pool for a draft without storing anything.
func (s *CaseService) Preview(ctx context.Context, draft domain.CaseDraft) ([]domain.RankedHit, error) {
	draft, err := validateCaseDraft(draft)
	if err != nil {
		return nil, err
	}
	pool, err := s.recordStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	hits, err := rankBoundary(ctx, s.gate, s.relevance, driven.RankRequest{Records: pool, Profile: draft.Profile()})
	if err != nil {
		degrade(err)
		return []domain.RankedHit{}, nil
	}
	return hits, nil
}

// Get retrieves a case by ID.
func (s *CaseService) Get(ctx context.Context, id string) (*domain.Case, error) {
	return s.caseStore.Get(ctx, id)
}

// List returns all cases, newest first.
func (s *CaseService) List(ctx context.Context) ([]domain.Case, error) {
	return s.caseStore.List(ctx)
}

// Records returns the snapshot records of a case in chronological order.
// Ids whose record no longer exists are skipped.
func (s *CaseService) Records(ctx context.Context, id string) ([]domain.Record, error) {
	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.recordStore.GetMany(ctx, c.Snapshot.RecordIDs)
	if err != nil {
		return nil, fmt.Errorf("load case records: %w", err)
	}
	return evidence.Chronological(records), nil
}

// Candidates re-ranks the full record pool with the case's own profile and
// returns only the hits not yet in the snapshot. A provider failure yields
// an empty result; a superseded request returns domain.ErrSuperseded.
func (s *CaseService) Candidates(ctx context.Context, id string, opts domain.RankOptions) ([]domain.RankedHit, error) {
	logger.Section("Case Candidates")

	if err := validateRankOptions(opts); err != nil {
		return nil, err
	}
	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pool, err := s.recordStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	if opts.Limit == 0 {
		opts.Limit = c.Profile.MaxResults
	}
	hits, err := rankBoundary(ctx, s.gate, s.relevance, driven.RankRequest{
		CaseID:  c.ID,
		Records: pool,
		Profile: c.Profile,
		Options: opts,
	})
	if errors.Is(err, domain.ErrSuperseded) {
		return nil, err
	}
	if err != nil {
		degrade(err)
		return []domain.RankedHit{}, nil
	}

	out := ranking.ExcludeIncluded(hits, c.Snapshot.RecordIDs)
	logger.Debug("Case %s: %d hits, %d candidates", c.ID, len(hits), len(out))
	return out, nil
}

// AddRecords merges records into the case snapshot. The full pool is
// re-ranked with the case profile first; if that fails the snapshot is
// left unchanged and the *domain.ProviderError is returned.
func (s *CaseService) AddRecords(ctx context.Context, id string, recordIDs []string) (*domain.Case, error) {
	unlock := s.gate.lock(id)
	defer unlock()

	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recordIDs))
	for _, rid := range recordIDs {
		if rid = strings.TrimSpace(rid); rid != "" {
			ids = append(ids, rid)
		}
	}
	if len(ids) == 0 {
		return nil, domain.NewValidationError("recordIds", "is required")
	}

	pool, err := s.recordStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	known := make(map[string]struct{}, len(pool))
	for _, r := range pool {
		known[r.ID] = struct{}{}
	}
	for _, rid := range ids {
		if _, ok := known[rid]; !ok {
			return nil, domain.NewValidationError("recordIds", fmt.Sprintf("unknown record %s", rid))
		}
	}

	hits, err := rankBoundary(ctx, s.gate, s.relevance, driven.RankRequest{
		CaseID:  c.ID,
		Records: pool,
		Profile: c.Profile,
		Options: domain.RankOptions{Limit: c.Profile.MaxResults},
	})
	if err != nil {
		logger.Warn("Merge into case %s aborted: %v", c.ID, err)
		return nil, err
	}

	merged := snapshot.MergeAdd(c.Snapshot, ids, hits)
	if err := snapshot.Verify(merged); err != nil {
		return nil, err
	}
	if err := s.caseStore.SaveSnapshot(ctx, c.ID, merged); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	logger.Info("Case %s: %d -> %d records", c.ID, len(c.Snapshot.RecordIDs), len(merged.RecordIDs))
	c.Snapshot = merged
	return c, nil
}

// RemoveRecord drops a record from the case snapshot. The record itself is kept.
func (s *CaseService) RemoveRecord(ctx context.Context, id, recordID string) (*domain.Case, error) {
	unlock := s.gate.lock(id)
	defer unlock()

	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Snapshot.Contains(recordID) {
		return nil, fmt.Errorf("record %s in case %s: %w", recordID, id, domain.ErrNotFound)
	}

	next := snapshot.RemoveOne(c.Snapshot, recordID)
	if err := s.caseStore.SaveSnapshot(ctx, c.ID, next); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	c.Snapshot = next
	return c, nil
}

// Compact purges cached scores of records no longer in the snapshot.
func (s *CaseService) Compact(ctx context.Context, id string) (int, error) {
	unlock := s.gate.lock(id)
	defer unlock()

	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	orphans := snapshot.Orphans(c.Snapshot)
	if len(orphans) == 0 {
		return 0, nil
	}
	if err := s.caseStore.SaveSnapshot(ctx, c.ID, snapshot.Compact(c.Snapshot)); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	logger.Debug("Case %s: purged %d orphaned entries", c.ID, len(orphans))
	return len(orphans), nil
}

// Advise regenerates the case advisors. Items with a known rule keep the
// state the operator gave them. A provider failure leaves advisors unchanged.
func (s *CaseService) Advise(ctx context.Context, id string) (*domain.Case, error) {
	unlock := s.gate.lock(id)
	defer unlock()

	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.recordStore.GetMany(ctx, c.Snapshot.RecordIDs)
	if err != nil {
		return nil, fmt.Errorf("load case records: %w", err)
	}

	items, err := adviseBoundary(ctx, s.advisor, driven.AdviseRequest{Records: records, Case: *c})
	if err != nil {
		degrade(err)
		return c, nil
	}

	c.Advisors = mergeAdvisors(c.Advisors, s.stampAdvisors(items))
	c.UpdatedAt = s.now()
	if err := s.caseStore.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	return c, nil
}

// SetAdvisorState changes the state of one advisor item.
func (s *CaseService) SetAdvisorState(
	ctx context.Context, id, advisorID string, state domain.AdvisorState,
) (*domain.Case, error) {
	if !state.IsValid() {
		return nil, domain.NewValidationError("state", fmt.Sprintf("unknown advisor state %q", state))
	}
	return s.update(ctx, id, func(c *domain.Case) error {
		for i := range c.Advisors {
			if c.Advisors[i].ID == advisorID {
				c.Advisors[i].State = state
				return nil
			}
		}
		return fmt.Errorf("advisor %s: %w", advisorID, domain.ErrNotFound)
	})
}

// AddStep appends a manual note to the case timeline.
func (s *CaseService) AddStep(ctx context.Context, id string, draft domain.StepDraft) (*domain.Case, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Note = strings.TrimSpace(draft.Note)
	if err := validateStruct(draft); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(c *domain.Case) error {
		ts := draft.TS
		if ts.IsZero() {
			ts = s.now()
		}
		c.Steps = append(c.Steps, domain.Step{ID: newID(stepIDPrefix), TS: ts, Name: draft.Name, Note: draft.Note})
		sort.SliceStable(c.Steps, func(i, j int) bool { return c.Steps[i].TS.Before(c.Steps[j].TS) })
		return nil
	})
}

// SetStatus changes the case status.
func (s *CaseService) SetStatus(ctx context.Context, id string, status domain.CaseStatus) (*domain.Case, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown case status %q", status))
	}
	return s.update(ctx, id, func(c *domain.Case) error {
		c.Status = status
		return nil
	})
}

// Delete removes a case. Its records are untouched.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	unlock := s.gate.lock(id)
	defer unlock()

	if _, err := s.caseStore.Get(ctx, id); err != nil {
		return err
	}
	return s.caseStore.Delete(ctx, id)
}

// update applies fn to a freshly loaded case and saves it.
func (s *CaseService) update(ctx context.Context, id string, fn func(c *domain.Case) error) (*domain.Case, error) {
	unlock := s.gate.lock(id)
	defer unlock()

	c, err := s.caseStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := s.caseStore.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	return c, nil
}

// advise generates the initial advisors of a new case from its snapshot records.
func (s *CaseService) advise(ctx context.Context, c *domain.Case, pool []domain.Record) []domain.AdvisorItem {
	records := make([]domain.Record, 0, len(c.Snapshot.RecordIDs))
	for _, r := range pool {
		if _, ok := c.Snapshot.ScoreByRecordID[r.ID]; ok {
			records = append(records, r)
		}
	}
	items, err := adviseBoundary(ctx, s.advisor, driven.AdviseRequest{Records: records, Case: *c})
	if err != nil {
		degrade(err)
		return []domain.AdvisorItem{}
	}
	return s.stampAdvisors(items)
}

// stampAdvisors fills in ids, timestamps and states a provider left blank
// and bounds the extra map.
func (s *CaseService) stampAdvisors(items []domain.AdvisorItem) []domain.AdvisorItem {
	out := make([]domain.AdvisorItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = newID(advisorIDPrefix)
		}
		if it.TS.IsZero() {
			it.TS = s.now()
		}
		if !it.State.IsValid() {
			it.State = domain.AdvisorActive
		}
		if len(it.Extra) > domain.MaxExtraEntries {
			it.Extra = boundExtra(it.Extra)
		}
		out = append(out, it)
	}
	return out
}

// mergeAdvisors replaces the advisor list with fresh items, carrying over
// the id and state of items produced by the same rule.
func mergeAdvisors(prev, fresh []domain.AdvisorItem) []domain.AdvisorItem {
	byRule := make(map[string]domain.AdvisorItem, len(prev))
	for _, p := range prev {
		if p.RuleID != "" {
			byRule[p.RuleID] = p
		}
	}
	for i, f := range fresh {
		if p, ok := byRule[f.RuleID]; ok && f.RuleID != "" {
			fresh[i].ID = p.ID
			fresh[i].State = p.State
		}
	}
	return fresh
}

// boundExtra keeps the first MaxExtraEntries keys in sorted order.
func boundExtra(m map[string]string) map[string]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]string, domain.MaxExtraEntries)
	for _, k := range keys[:domain.MaxExtraEntries] {
		out[k] = m[k]
	}
	return out
}

// autoTitle builds "{main actor} {query} 관련 사건", cutting the query at
// titleQueryRunes characters.
func autoTitle(p domain.CaseProfile) string {
	actor := "미정"
	if main, ok := p.MainActor(); ok {
		actor = main.Short()
	}
	q := []rune(strings.TrimSpace(p.Query))
	query := string(q)
	if len(q) > titleQueryRunes {
		query = string(q[:titleQueryRunes]) + "..."
	}
	return strings.Join(strings.Fields(actor+" "+query+" 관련 사건"), " ")
}
