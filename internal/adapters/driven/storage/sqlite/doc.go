// Package sqlite provides a SQLite-based implementation of the casefile stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database connection backs both store interfaces:
//
//   - RecordStore: insert-only incident records
//   - CaseStore: cases with their snapshots, steps and advisors
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Snapshot membership lives in case_records, cached scores in case_scores.
// A record referenced by case_records cannot be deleted.
//
// # Data Location
//
// By default, the database is stored at ~/.casefile/data/casefile.db
//
// # Thread Safety
//
// All operations are thread-safe. Snapshot writes run in a single transaction,
// so a reader sees either the old snapshot or the new one.
package sqlite
