package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

const recordColumns = `id, ts, actor_type, actor_name, related, place, place_other,
	summary, lv, store_type, store_other, extra, created_at, ts_offset`

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Save inserts a record. Records are never updated in place.
func (s *recordStore) Save(ctx context.Context, r *domain.Record) error {
	related, err := json.Marshal(nonNil(r.Related))
	if err != nil {
		return fmt.Errorf("marshalling related actors: %w", err)
	}
	var extra sql.NullString
	if len(r.Extra) > 0 {
		b, err := json.Marshal(r.Extra)
		if err != nil {
			return fmt.Errorf("marshalling extra: %w", err)
		}
		extra = sql.NullString{String: string(b), Valid: true}
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, r.ID, unixNano(r.Timestamp), string(r.Actor.Type), r.Actor.Name, string(related),
		r.Place, r.PlaceOther, r.Summary, string(r.Sensitivity), r.StoreType, r.StoreOther,
		extra, r.CreatedAt.UTC(), zoneOffset(r.Timestamp))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get retrieves a record by ID.
func (s *recordStore) Get(ctx context.Context, id string) (*domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// GetMany retrieves records in the order of ids, skipping unknown IDs.
func (s *recordStore) GetMany(ctx context.Context, ids []string) ([]domain.Record, error) {
	if len(ids) == 0 {
		return []domain.Record{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	byID, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string]domain.Record, len(byID))
	for _, r := range byID {
		index[r.ID] = r
	}
	result := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := index[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// List returns all records ordered by timestamp, then ID. Undated records come first.
func (s *recordStore) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records ORDER BY ts IS NOT NULL, ts, id`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return collectRecords(rows)
}

// Delete removes a record. Deleting a record a case still includes fails.
func (s *recordStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("deleting record %s: %w", id, domain.ErrRecordInUse)
		}
		return fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.Record, error) {
	var (
		r             domain.Record
		ts            sql.NullInt64
		actorType, lv string
		related       string
		extra         sql.NullString
		createdAt     sql.NullTime
		offset        sql.NullInt64
	)
	if err := row.Scan(&r.ID, &ts, &actorType, &r.Actor.Name, &related, &r.Place, &r.PlaceOther,
		&r.Summary, &lv, &r.StoreType, &r.StoreOther, &extra, &createdAt, &offset); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	r.Actor.Type = domain.ActorType(actorType)
	r.Sensitivity = domain.Sensitivity(lv)
	if ts.Valid {
		r.Timestamp = fromUnixNano(ts.Int64, offset)
	}
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time.UTC()
	}
	if err := json.Unmarshal([]byte(related), &r.Related); err != nil {
		return nil, fmt.Errorf("unmarshaling related actors: %w", err)
	}
	if extra.Valid && extra.String != jsonNull {
		if err := json.Unmarshal([]byte(extra.String), &r.Extra); err != nil {
			return nil, fmt.Errorf("unmarshaling extra: %w", err)
		}
	}
	return &r, nil
}

func collectRecords(rows *sql.Rows) ([]domain.Record, error) {
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Timestamps are stored as sortable UnixNano integers with the UTC offset
// alongside, so a record keeps the calendar day it was entered on.
// Unknown timestamps stay NULL.
func unixNano(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func zoneOffset(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	_, offset := t.Zone()
	return sql.NullInt64{Int64: int64(offset), Valid: true}
}

// fromUnixNano rebuilds a timestamp in its stored offset. Rows written
// without an offset load as UTC.
func fromUnixNano(ns int64, offset sql.NullInt64) time.Time {
	t := time.Unix(0, ns)
	if !offset.Valid || offset.Int64 == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", int(offset.Int64)))
}
