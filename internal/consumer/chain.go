// Package consumer provides the ordered consumer chain and the concrete
// consumers that try candidate paths: an adb/TWRP device driver, a
// known-pattern matcher for dry runs, and a grid printer.
package consumer

import (
	"context"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Chain dispatches each candidate to its consumers in registration order.
// The first consumer to report a match wins; registration order is the
// deterministic, caller-controlled tie-break. The chain itself is
// side-effect-free beyond dispatch.
type Chain struct {
	consumers []pattern.Consumer
	terminal  int // index into consumers; -1 when no terminal consumer
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{terminal: -1}
}

// Add appends a pass-through consumer to the chain.
func (c *Chain) Add(cons pattern.Consumer) {
	c.consumers = append(c.consumers, cons)
}

// AddTerminal appends the terminal consumer: the one whose outcome is
// durably recorded in the attempt ledger. At most one consumer is
// terminal; a later call replaces the designation.
func (c *Chain) AddTerminal(cons pattern.Consumer) {
	c.terminal = len(c.consumers)
	c.consumers = append(c.consumers, cons)
}

// Len returns the number of registered consumers.
func (c *Chain) Len() int { return len(c.consumers) }

// HasTerminal reports whether a terminal consumer is registered.
func (c *Chain) HasTerminal() bool { return c.terminal >= 0 }

// Offer presents the candidate to each consumer in registration order,
// stopping at the first match. It returns the matching consumer's outcome
// (the zero Outcome when none matched) and, separately, the terminal
// consumer's outcome when it was reached, nil otherwise. A non-nil error
// means structural failure or cancellation and aborts the candidate.
func (c *Chain) Offer(ctx context.Context, p pattern.Path, total int) (pattern.Outcome, *pattern.Outcome, error) {
	var terminal *pattern.Outcome
	for i, cons := range c.consumers {
		out, err := cons.Offer(ctx, p, total)
		if err != nil {
			return pattern.Outcome{}, terminal, err
		}
		if i == c.terminal {
			o := out
			terminal = &o
		}
		if out.Matched {
			return out, terminal, nil
		}
	}
	return pattern.Outcome{}, terminal, nil
}
