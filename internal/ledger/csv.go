package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// csvHeader is the header record written once when a store is created.
// Existing stores without a header are tolerated; their first row is then
// just another data row.
var csvHeader = []string{"timestamp", "path", "result", "info"}

// CSV is the append-only CSV-file attempt ledger. Every append takes an
// exclusive advisory lock and every load a shared one, so monitoring
// tools can read the store while a search is writing. No lock is held
// between operations.
type CSV struct {
	path   string
	log    *slog.Logger
	keys   map[string]bool
	closed bool
}

// NewCSV returns a CSV ledger backed by the file at path. Call Load
// before Contains or Append.
func NewCSV(path string, logger *slog.Logger) *CSV {
	return &CSV{path: path, log: logger}
}

// Load replays the store and collects the canonical path keys of every
// recorded attempt. A missing store is created empty with a header
// record. Malformed rows are skipped with a warning rather than failing
// the whole load.
func (l *CSV) Load() (int, error) {
	if l.closed {
		return 0, pattern.ErrLedgerClosed
	}
	l.keys = make(map[string]bool)

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Debug("creating ledger store", "path", l.path)
		return 0, l.create()
	}
	if err != nil {
		return 0, fmt.Errorf("open ledger store: %w", err)
	}
	defer f.Close()

	if err := lockShared(f); err != nil {
		return 0, fmt.Errorf("lock ledger store: %w", err)
	}
	defer unlock(f)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.log.Warn("skipping malformed ledger record", "err", err)
			continue
		}
		if first {
			first = false
			if len(rec) > 0 && rec[0] == csvHeader[0] {
				continue
			}
		}
		if len(rec) < 2 {
			l.log.Warn("skipping malformed ledger record", "record", rec)
			continue
		}
		l.keys[rec[1]] = true
	}
	l.log.Debug("loaded attempted paths", "path", l.path, "count", len(l.keys))
	return len(l.keys), nil
}

// create writes an empty store with its header record under an exclusive
// lock.
func (l *CSV) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create ledger store: %w", err)
	}
	defer f.Close()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("lock ledger store: %w", err)
	}
	defer unlock(f)

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Contains reports whether the path was recorded by a previous Load or
// Append.
func (l *CSV) Contains(p pattern.Path) bool {
	return l.keys[p.Key()]
}

// Append durably persists one attempt record under an exclusive lock and
// adds its key to the in-memory set.
func (l *CSV) Append(at time.Time, p pattern.Path, code, info string) error {
	if l.closed {
		return pattern.ErrLedgerClosed
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer f.Close()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("lock ledger store: %w", err)
	}
	defer unlock(f)

	w := csv.NewWriter(f)
	rec := []string{at.Format(timeLayout), p.Key(), code, flattenInfo(info)}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}

	if l.keys == nil {
		l.keys = make(map[string]bool)
	}
	l.keys[p.Key()] = true
	return nil
}

// Close marks the ledger closed. The store itself needs no teardown; each
// operation opens and closes the file around its lock.
func (l *CSV) Close() error {
	l.closed = true
	return nil
}

// flattenInfo keeps a multi-line info text on a single record line.
func flattenInfo(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
