// Package audit persists a record of every check_mission call: who asked,
// what the decision was, and how many conflicts were found. It is a pure
// supporting concern — the engine itself has no notion of audit trails.
//
// Grounded on the teacher's database layer pattern
// (jengzang-records-backend-go's internal/database/sqlite.go): a single
// *sql.DB opened against modernc.org/sqlite (pure Go, no cgo), WAL mode
// for concurrent readers during writes, migrated with a single embedded
// schema statement run at Open time.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS check_mission_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	correlation_id  TEXT NOT NULL,
	primary_drone   TEXT NOT NULL,
	cleared         INTEGER NOT NULL,
	conflict_count  INTEGER NOT NULL,
	highest_severity TEXT NOT NULL,
	total_ms        REAL NOT NULL,
	checked_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_check_mission_log_drone ON check_mission_log(primary_drone);
`

// Store is a sqlite-backed audit log.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the audit database at path. An empty path
// opens an in-memory database, useful for tests.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit store %q: %w", path, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL on audit store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record is one check_mission call, as persisted.
type Record struct {
	CorrelationID   string
	PrimaryDrone    string
	Cleared         bool
	ConflictCount   int
	HighestSeverity string
	TotalMs         float64
	CheckedAt       time.Time
}

// Insert persists one completed check_mission call.
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_mission_log
			(correlation_id, primary_drone, cleared, conflict_count, highest_severity, total_ms, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.CorrelationID, r.PrimaryDrone, boolToInt(r.Cleared), r.ConflictCount,
		r.HighestSeverity, r.TotalMs, r.CheckedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert audit record for %s: %w", r.PrimaryDrone, err)
	}
	return nil
}

// RecentForDrone returns the most recent n audit records for a drone_id,
// newest first.
func (s *Store) RecentForDrone(ctx context.Context, droneID string, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT correlation_id, primary_drone, cleared, conflict_count, highest_severity, total_ms, checked_at
		 FROM check_mission_log WHERE primary_drone = ? ORDER BY id DESC LIMIT ?`,
		droneID, n)
	if err != nil {
		return nil, fmt.Errorf("query audit records for %s: %w", droneID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var cleared int
		var checkedAt string
		if err := rows.Scan(&r.CorrelationID, &r.PrimaryDrone, &cleared, &r.ConflictCount, &r.HighestSeverity, &r.TotalMs, &checkedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		r.Cleared = cleared != 0
		r.CheckedAt, _ = time.Parse(time.RFC3339Nano, checkedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
