package ledger

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// attemptsSchema holds every attempt ever recorded against this store,
// tagged with the run that produced it. Append-only: rows are never
// updated or deleted.
const attemptsSchema = `
CREATE TABLE IF NOT EXISTS attempts (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	attempted_at TEXT NOT NULL,
	path         TEXT NOT NULL,
	result       TEXT NOT NULL,
	info         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_path ON attempts(path);
`

// SQLite is the attempt ledger backed by a SQLite database. Concurrent
// readers are covered by SQLite's own locking, so no advisory file lock
// is layered on top.
type SQLite struct {
	db     *sql.DB
	runID  string
	log    *slog.Logger
	keys   map[string]bool
	closed bool
}

// NewSQLite opens (creating if needed) the database at path and ensures
// the attempts schema exists.
func NewSQLite(path, runID string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if _, err := db.Exec(attemptsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &SQLite{db: db, runID: runID, log: logger}, nil
}

// Load collects the canonical path keys of every recorded attempt across
// all runs.
func (l *SQLite) Load() (int, error) {
	if l.closed {
		return 0, pattern.ErrLedgerClosed
	}
	l.keys = make(map[string]bool)

	rows, err := l.db.Query(`SELECT path FROM attempts`)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			l.log.Warn("skipping malformed ledger row", "err", err)
			continue
		}
		l.keys[key] = true
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	l.log.Debug("loaded attempted paths", "count", len(l.keys))
	return len(l.keys), nil
}

// Contains reports whether the path was recorded by a previous Load or
// Append.
func (l *SQLite) Contains(p pattern.Path) bool {
	return l.keys[p.Key()]
}

// Append inserts one attempt row tagged with this run's ID.
func (l *SQLite) Append(at time.Time, p pattern.Path, code, info string) error {
	if l.closed {
		return pattern.ErrLedgerClosed
	}
	_, err := l.db.Exec(
		`INSERT INTO attempts (run_id, attempted_at, path, result, info) VALUES (?, ?, ?, ?, ?)`,
		l.runID, at.Format(timeLayout), p.Key(), code, info,
	)
	if err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}
	if l.keys == nil {
		l.keys = make(map[string]bool)
	}
	l.keys[p.Key()] = true
	return nil
}

// Close releases the database handle.
func (l *SQLite) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}
