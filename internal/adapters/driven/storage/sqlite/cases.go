package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// caseStore implements driven.CaseStore.
type caseStore struct {
	store *Store
}

var _ driven.CaseStore = (*caseStore)(nil)

// Save stores or replaces a case and its snapshot in one transaction.
func (s *caseStore) Save(ctx context.Context, c *domain.Case) error {
	profile, err := json.Marshal(c.Profile)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}
	steps, err := json.Marshal(nonNil(c.Steps))
	if err != nil {
		return fmt.Errorf("marshalling steps: %w", err)
	}
	advisors, err := json.Marshal(nonNil(c.Advisors))
	if err != nil {
		return fmt.Errorf("marshalling advisors: %w", err)
	}

	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cases (id, title, status, profile, steps, advisors, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				status = excluded.status,
				profile = excluded.profile,
				steps = excluded.steps,
				advisors = excluded.advisors,
				updated_at = excluded.updated_at
		`, c.ID, c.Title, string(c.Status), string(profile), string(steps), string(advisors),
			c.CreatedAt.UTC(), c.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("saving case: %w", err)
		}
		return writeSnapshot(ctx, tx, c.ID, c.Snapshot)
	})
}

// SaveSnapshot replaces the snapshot of an existing case. Either every
// row of the new snapshot is written or none.
func (s *caseStore) SaveSnapshot(ctx context.Context, caseID string, snap domain.Snapshot) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM cases WHERE id = ?", caseID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking case: %w", err)
		}
		return writeSnapshot(ctx, tx, caseID, snap)
	})
}

// Get retrieves a case by ID.
func (s *caseStore) Get(ctx context.Context, id string) (*domain.Case, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, status, profile, steps, advisors, created_at, updated_at
		FROM cases WHERE id = ?
	`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadSnapshot(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all cases, newest first.
func (s *caseStore) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, status, profile, steps, advisors, created_at, updated_at
		FROM cases
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}

	cases := []domain.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		cases = append(cases, *c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating cases: %w", err)
	}
	rows.Close()

	for i := range cases {
		if err := s.loadSnapshot(ctx, &cases[i]); err != nil {
			return nil, err
		}
	}
	sort.Slice(cases, func(i, j int) bool {
		if !cases[i].CreatedAt.Equal(cases[j].CreatedAt) {
			return cases[i].CreatedAt.After(cases[j].CreatedAt)
		}
		return cases[i].ID < cases[j].ID
	})
	return cases, nil
}

// Delete removes a case. Snapshot rows cascade.
func (s *caseStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}
	return nil
}

// CountReferencing returns how many cases include the record.
func (s *caseStore) CountReferencing(ctx context.Context, recordID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT case_id) FROM case_records WHERE record_id = ?", recordID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting case references: %w", err)
	}
	return n, nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, caseID string, snap domain.Snapshot) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM case_records WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("clearing snapshot records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM case_scores WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("clearing snapshot scores: %w", err)
	}

	memberStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO case_records (case_id, record_id, position) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer memberStmt.Close()

	for i, id := range snap.RecordIDs {
		if _, err := memberStmt.ExecContext(ctx, caseID, id, i); err != nil {
			return fmt.Errorf("saving snapshot record %s: %w", id, err)
		}
	}

	scoreStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO case_scores (case_id, record_id, score, components) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer scoreStmt.Close()

	for _, id := range cachedIDs(snap) {
		var score sql.NullFloat64
		if v, ok := snap.ScoreByRecordID[id]; ok {
			score = sql.NullFloat64{Float64: v, Valid: true}
		}
		var components sql.NullString
		if comp, ok := snap.ComponentsByRecordID[id]; ok {
			b, err := json.Marshal(comp)
			if err != nil {
				return fmt.Errorf("marshalling components: %w", err)
			}
			components = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := scoreStmt.ExecContext(ctx, caseID, id, score, components); err != nil {
			return fmt.Errorf("saving snapshot score %s: %w", id, err)
		}
	}
	return nil
}

func (s *caseStore) loadSnapshot(ctx context.Context, c *domain.Case) error {
	c.Snapshot = domain.Snapshot{
		RecordIDs:            []string{},
		ScoreByRecordID:      map[string]float64{},
		ComponentsByRecordID: map[string]domain.RankedComponents{},
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT record_id FROM case_records WHERE case_id = ? ORDER BY position", c.ID)
	if err != nil {
		return fmt.Errorf("querying snapshot records: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning snapshot record: %w", err)
		}
		c.Snapshot.RecordIDs = append(c.Snapshot.RecordIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating snapshot records: %w", err)
	}

	rows, err = s.store.db.QueryContext(ctx,
		"SELECT record_id, score, components FROM case_scores WHERE case_id = ?", c.ID)
	if err != nil {
		return fmt.Errorf("querying snapshot scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id         string
			score      sql.NullFloat64
			components sql.NullString
		)
		if err := rows.Scan(&id, &score, &components); err != nil {
			return fmt.Errorf("scanning snapshot score: %w", err)
		}
		if score.Valid {
			c.Snapshot.ScoreByRecordID[id] = score.Float64
		}
		if components.Valid && components.String != jsonNull {
			var comp domain.RankedComponents
			if err := json.Unmarshal([]byte(components.String), &comp); err != nil {
				return fmt.Errorf("unmarshaling components: %w", err)
			}
			c.Snapshot.ComponentsByRecordID[id] = comp
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating snapshot scores: %w", err)
	}
	return nil
}

// cachedIDs returns every id with a cached score or components, sorted.
func cachedIDs(snap domain.Snapshot) []string {
	ids := make([]string, 0, len(snap.ScoreByRecordID))
	for id := range snap.ScoreByRecordID {
		ids = append(ids, id)
	}
	for id := range snap.ComponentsByRecordID {
		if _, ok := snap.ScoreByRecordID[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func scanCase(row scanner) (*domain.Case, error) {
	var (
		c                        domain.Case
		status                   string
		profile, steps, advisors string
		createdAt, updatedAt     sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.Title, &status, &profile, &steps, &advisors,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning case: %w", err)
	}

	c.Status = domain.CaseStatus(status)
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time.UTC()
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time.UTC()
	}
	if err := json.Unmarshal([]byte(profile), &c.Profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &c.Steps); err != nil {
		return nil, fmt.Errorf("unmarshaling steps: %w", err)
	}
	if err := json.Unmarshal([]byte(advisors), &c.Advisors); err != nil {
		return nil, fmt.Errorf("unmarshaling advisors: %w", err)
	}
	return &c, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
