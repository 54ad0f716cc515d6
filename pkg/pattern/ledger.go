package pattern

import "time"

// Attempt is one durable ledger record: a candidate that was offered to
// the terminal consumer, with the consumer's result code and detail text.
type Attempt struct {
	Time time.Time
	Path Path
	Code string
	Info string
}

// Ledger is the durable, append-only record of candidates already offered
// to the terminal consumer. It makes a long, possibly interrupted search
// resumable: a path recorded here is never re-offered in a later run
// against the same store.
type Ledger interface {
	// Load replays the backing store and builds the in-memory key set,
	// returning the number of distinct paths recorded. On first use, when
	// no store exists, Load creates an empty one and returns zero.
	// Malformed individual records are skipped with a warning, not fatal.
	Load() (int, error)

	// Contains reports whether the path's canonical key has been recorded.
	Contains(p Path) bool

	// Append durably persists one attempt record before returning.
	// A failed append is fatal for the run; losing durability silently
	// would break resumability.
	Append(at time.Time, p Path, code, info string) error

	// Close releases the backing store. Operations after Close return
	// ErrLedgerClosed.
	Close() error
}
