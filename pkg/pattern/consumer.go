package pattern

import "context"

// Result codes recorded in the attempt ledger.
const (
	CodeSuccess = "success"
	CodeFailure = "failure"
	CodeTimeout = "timeout"
	CodeError   = "error"
)

// Outcome describes one consumer's response to a candidate path.
type Outcome struct {
	Matched bool   // candidate verified as the sought pattern
	Result  Path   // the matched path when Matched is true
	Code    string // consumer-defined result code, recorded in the ledger
	Info    string // free-text detail, recorded in the ledger
}

// Consumer is the capability implemented by anything that can try a
// candidate path: device drivers, dry-run testers, printers, loggers.
//
// Offer must not mutate path and must not retain it past the call. total
// is the full candidate count for progress reporting; zero means unknown.
// A returned error means the consumer is structurally unable to continue
// (wrap ErrConsumerUnavailable) or the context was cancelled. Transient
// per-candidate failures are reported as a non-matching Outcome with an
// explanatory Code instead.
type Consumer interface {
	Offer(ctx context.Context, path Path, total int) (Outcome, error)
}
