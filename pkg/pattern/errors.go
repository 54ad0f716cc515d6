package pattern

import "errors"

// Configuration errors. All are fatal and reported before a search begins;
// none is retried.
var (
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrUnsupportedGridSize = errors.New("unsupported grid size")
	ErrLengthOrder         = errors.New("min_length exceeds max_length")
	ErrAffixTooLong        = errors.New("prefix/suffix does not fit within max_length")
	ErrAffixExcluded       = errors.New("prefix/suffix contains an excluded node")
	ErrNoPaths             = errors.New("no paths satisfy constraints")
)

// Runtime errors.
var (
	// ErrConsumerUnavailable marks a structural consumer failure: the
	// external tool is gone entirely, not merely slow. It aborts the whole
	// search, since continuing would silently waste the remaining space.
	// Transient failures (a single timed-out call) are not errors at all;
	// consumers absorb them into a non-matching outcome.
	ErrConsumerUnavailable = errors.New("consumer unavailable")

	// ErrLedgerClosed is returned by ledger operations after Close.
	ErrLedgerClosed = errors.New("attempt ledger is closed")
)
