// Package search implements constrained path enumeration over an unlock
// grid and the driver that offers each candidate to a consumer chain.
package search

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/gridlock/internal/grid"
	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Enumerator lazily produces every path through a grid that satisfies the
// configured length, prefix, suffix, and exclusion constraints.
//
// Traversal is depth-first with backtracking over an owned buffer. Each
// Walk or Count call starts from the same deterministic state and replays
// the identical sequence in the identical order, so independent passes
// (a count pass and a yield pass) always agree.
type Enumerator struct {
	grid     *grid.Grid
	minLen   int
	maxLen   int
	prefix   pattern.Path
	suffix   pattern.Path
	excluded map[pattern.Node]bool
	log      *slog.Logger
}

// NewEnumerator builds an enumerator for the given configuration.
// The configuration is trusted to be pre-validated; an unsupported grid
// size is still reported as a fatal construction error.
func NewEnumerator(cfg pattern.Config, logger *slog.Logger) (*Enumerator, error) {
	g, err := grid.Lookup(cfg.GridSize)
	if err != nil {
		return nil, err
	}
	excluded := make(map[pattern.Node]bool, len(cfg.Excluded))
	for _, n := range cfg.Excluded {
		excluded[n] = true
	}
	return &Enumerator{
		grid:     g,
		minLen:   cfg.MinLength,
		maxLen:   cfg.MaxLength,
		prefix:   cfg.Prefix.Clone(),
		suffix:   cfg.Suffix.Clone(),
		excluded: excluded,
		log:      logger,
	}, nil
}

// Visit receives one candidate path. The path is a private copy the
// visitor may retain across iterations. Returning stop=true ends the walk
// early without error; a non-nil error aborts the walk and is returned
// from Walk unchanged.
type Visit func(p pattern.Path) (stop bool, err error)

// Walk runs the traversal, invoking visit for every valid path in
// deterministic order. Cancellation of ctx aborts the walk with ctx.Err().
func (e *Enumerator) Walk(ctx context.Context, visit Visit) error {
	w := &walker{
		enum: e,
		ctx:  ctx,
		emit: func(buf pattern.Path) (bool, error) {
			// Hand out a copy; the buffer mutates as the walk continues.
			return visit(buf.Clone())
		},
	}
	return w.run()
}

// Count returns the number of paths Walk would produce for the identical
// configuration, without materializing any of them. A count of zero is a
// configuration error (pattern.ErrNoPaths): the caller cannot meaningfully
// search nothing.
func (e *Enumerator) Count(ctx context.Context) (int, error) {
	total := 0
	w := &walker{
		enum: e,
		ctx:  ctx,
		emit: func(pattern.Path) (bool, error) {
			total++
			return false, nil
		},
	}
	if err := w.run(); err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, pattern.ErrNoPaths
	}
	e.log.Debug("counted candidate paths", "total", total)
	return total, nil
}

// walker owns the traversal buffer for one pass. emit observes the shared
// buffer; Walk wraps it to hand out copies, Count only accumulates.
type walker struct {
	enum    *Enumerator
	ctx     context.Context
	emit    func(p pattern.Path) (bool, error)
	path    pattern.Path
	visited map[pattern.Node]bool
	stopped bool
}

func (w *walker) run() error {
	e := w.enum
	w.path = make(pattern.Path, 0, e.maxLen)
	w.visited = make(map[pattern.Node]bool, e.maxLen)

	if len(e.prefix) > 0 {
		if !w.seedPrefix() {
			// A prefix that cannot begin any valid path (too long,
			// repeated or excluded nodes) yields an empty walk rather
			// than a crash; validation owns rejecting such configs.
			return nil
		}
		return w.dfs(e.prefix[len(e.prefix)-1])
	}

	// No prefix: one DFS root per non-excluded node, in catalog order.
	// This is the only point where multiple roots exist.
	for _, n := range e.grid.Nodes() {
		if e.excluded[n] {
			continue
		}
		if err := w.dfs(n); err != nil {
			return err
		}
		if w.stopped {
			return nil
		}
	}
	return nil
}

// seedPrefix loads every prefix node except the last into the traversal
// buffer; the DFS then branches from the last prefix node. The prefix is
// consumed without branching. Returns false when no path can start with
// this prefix.
func (w *walker) seedPrefix() bool {
	e := w.enum
	if len(e.prefix) > e.maxLen {
		return false
	}
	for _, n := range e.prefix {
		if e.excluded[n] || w.visited[n] {
			return false
		}
		w.visited[n] = true
	}
	// dfs re-marks the last prefix node itself.
	last := e.prefix[len(e.prefix)-1]
	delete(w.visited, last)
	w.path = append(w.path, e.prefix[:len(e.prefix)-1]...)
	return true
}

func (w *walker) dfs(n pattern.Node) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	w.path = append(w.path, n)
	w.visited[n] = true
	defer func() {
		// Backtrack exactly so sibling branches see a clean buffer.
		w.path = w.path[:len(w.path)-1]
		delete(w.visited, n)
	}()

	if len(w.path) >= w.enum.minLen && w.path.HasSuffix(w.enum.suffix) {
		stop, err := w.emit(w.path)
		if err != nil {
			return err
		}
		if stop {
			w.stopped = true
			return nil
		}
	}

	if len(w.path) < w.enum.maxLen {
		for _, m := range w.enum.grid.Neighbors(n) {
			if w.enum.excluded[m] || w.visited[m] {
				continue
			}
			if err := w.dfs(m); err != nil {
				return err
			}
			if w.stopped {
				return nil
			}
		}
	}
	return nil
}
