package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/gridlock/internal/consumer"
	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// State names the driver's lifecycle phase. Running is the only state in
// which candidates are generated and consumed; Found, Exhausted,
// Interrupted, and Fatal are final.
type State string

const (
	StateIdle        State = "idle"
	StateRunning     State = "running"
	StateFound       State = "found"
	StateExhausted   State = "exhausted"
	StateInterrupted State = "interrupted"
	StateFatal       State = "fatal"
)

// Result reports how a search ended.
type Result struct {
	State         State
	Found         pattern.Path // the matched path when State is StateFound
	LastCandidate pattern.Path // last candidate generated before stopping
	Total         int          // total candidates for the constraint set
	Attempted     int          // candidates dispatched to the chain this run
	Skipped       int          // candidates skipped via the ledger
	Elapsed       time.Duration
}

// Driver ties the enumerator, consumer chain, and attempt ledger into one
// sequential, single-threaded search. The terminal consumer typically
// talks to a single rate-limited device, so there is deliberately no
// parallel dispatch.
type Driver struct {
	enum   *Enumerator
	chain  *consumer.Chain
	ledger pattern.Ledger // nil when no terminal consumer records attempts
	delay  time.Duration
	runID  string
	log    *slog.Logger
	state  State
}

// NewDriver assembles a driver for one search. ledger may be nil when the
// chain has no terminal consumer. delay is the pause inserted after each
// non-matching terminal response, to respect external rate limits. An
// empty runID is replaced with a fresh one.
func NewDriver(enum *Enumerator, chain *consumer.Chain, ledger pattern.Ledger, delay time.Duration, runID string, logger *slog.Logger) *Driver {
	if runID == "" {
		runID = NewRunID()
	}
	return &Driver{
		enum:   enum,
		chain:  chain,
		ledger: ledger,
		delay:  delay,
		runID:  runID,
		log:    logger.With("run_id", runID),
		state:  StateIdle,
	}
}

// NewRunID returns a UUID v7 identifying one search run, falling back to
// v4 when v7 generation fails.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// RunID returns the identifier tagging this run in logs and ledger rows.
func (d *Driver) RunID() string { return d.runID }

// State returns the driver's current lifecycle state.
func (d *Driver) State() State { return d.state }

// Run executes the search until a consumer matches, the enumerator is
// exhausted, ctx is cancelled, or a fatal error occurs. The returned
// error is non-nil only for the Interrupted and Fatal states.
//
// Ledger ordering guarantees: a recorded candidate is skipped without
// dispatch; an offered candidate is appended before the driver advances;
// an interrupted candidate is not appended and will be retried on the
// next run.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	d.state = StateRunning
	res := Result{}

	finish := func(s State, err error) (Result, error) {
		d.state = s
		res.State = s
		res.Elapsed = time.Since(start)
		return res, err
	}

	total, err := d.enum.Count(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return finish(StateInterrupted, ctx.Err())
		}
		return finish(StateFatal, err)
	}
	res.Total = total
	d.log.Info("search space computed", "total", total)

	if d.ledger != nil {
		prior, err := d.ledger.Load()
		if err != nil {
			return finish(StateFatal, fmt.Errorf("load ledger: %w", err))
		}
		if prior > 0 {
			d.log.Info("resuming previous session", "recorded", prior)
		}
	}

	found := false
	walkErr := d.enum.Walk(ctx, func(p pattern.Path) (bool, error) {
		res.LastCandidate = p

		if d.ledger != nil && d.ledger.Contains(p) {
			res.Skipped++
			d.log.Debug("skipping recorded candidate", "path", p)
			return false, nil
		}

		out, terminal, err := d.chain.Offer(ctx, p, total)
		if err != nil {
			return false, err
		}
		res.Attempted++

		if terminal != nil && d.ledger != nil {
			if err := d.ledger.Append(time.Now(), p, terminal.Code, terminal.Info); err != nil {
				return false, fmt.Errorf("append ledger: %w", err)
			}
		}

		if out.Matched {
			res.Found = out.Result
			found = true
			return true, nil
		}

		if terminal != nil && d.delay > 0 {
			if err := d.pause(ctx); err != nil {
				return false, err
			}
		}
		return false, nil
	})

	switch {
	case walkErr == nil && found:
		d.log.Info("pattern found", "path", res.Found, "attempted", res.Attempted, "elapsed", time.Since(start))
		return finish(StateFound, nil)
	case walkErr == nil:
		d.log.Info("search space exhausted", "attempted", res.Attempted, "skipped", res.Skipped, "elapsed", time.Since(start))
		return finish(StateExhausted, nil)
	case errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded):
		d.log.Info("search interrupted", "last", res.LastCandidate, "elapsed", time.Since(start))
		return finish(StateInterrupted, walkErr)
	default:
		d.log.Error("search aborted", "err", walkErr, "last", res.LastCandidate)
		return finish(StateFatal, walkErr)
	}
}

// pause waits out the inter-attempt delay. Cancellation aborts the wait
// immediately rather than letting it run to completion.
func (d *Driver) pause(ctx context.Context) error {
	t := time.NewTimer(d.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
