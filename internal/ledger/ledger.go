// Package ledger provides the durable attempt-ledger backends: a CSV
// store guarded by advisory file locks, and a SQLite store for users who
// want queryable attempt history.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// ErrUnknownBackend is returned by Open for unrecognized backend names.
var ErrUnknownBackend = errors.New("unknown ledger backend")

// timeLayout is the human-readable timestamp format recorded with each
// attempt.
const timeLayout = "2006-01-02 15:04:05"

// Open returns the ledger implementation named by backend, storing at
// path. An empty backend selects CSV. runID tags records written by this
// run in backends that keep it.
func Open(backend, path, runID string, logger *slog.Logger) (pattern.Ledger, error) {
	switch backend {
	case pattern.LedgerBackendCSV, "":
		return NewCSV(path, logger), nil
	case pattern.LedgerBackendSQLite:
		return NewSQLite(path, runID, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
