// Package grid provides the static catalog of supported unlock grids.
// The catalog is process-wide immutable state, built once at package
// initialization.
package grid

import (
	"fmt"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Supported grid sizes. Sizes outside this range are a fatal configuration
// error, not something the engine retries.
const (
	MinSize = 3
	MaxSize = 6
)

// firstLabel is the label of the top-left node. Labels are consecutive
// ASCII runes assigned row-major, which reproduces the TWRP node codes:
// '1'..'9' for 3x3, continuing through ':' ';' '<' ... up to 'T' for 6x6.
const firstLabel = '1'

// Grid is one supported unlock grid: its ordered node list and the
// adjacency relation as an explicit per-node lookup. Adjacency is
// symmetric; it is stored both ways for O(1) neighbor access. Immutable
// after construction.
type Grid struct {
	size      int
	nodes     []pattern.Node
	neighbors map[pattern.Node][]pattern.Node
}

var catalog = buildCatalog()

func buildCatalog() map[int]*Grid {
	m := make(map[int]*Grid, MaxSize-MinSize+1)
	for size := MinSize; size <= MaxSize; size++ {
		m[size] = build(size)
	}
	return m
}

// build constructs the grid for one size. Two nodes are adjacent when
// their cells are within one king move of each other. Neighbor lists are
// ordered by row-major scan position; that stored order is stable and is
// the tie-break that determines enumeration order.
func build(size int) *Grid {
	count := size * size
	nodes := make([]pattern.Node, count)
	for i := range nodes {
		nodes[i] = pattern.Node(rune(firstLabel + i))
	}

	neighbors := make(map[pattern.Node][]pattern.Node, count)
	for i, n := range nodes {
		row, col := i/size, i%size
		adj := make([]pattern.Node, 0, 8)
		for j, m := range nodes {
			if j == i {
				continue
			}
			r, c := j/size, j%size
			if abs(r-row) <= 1 && abs(c-col) <= 1 {
				adj = append(adj, m)
			}
		}
		neighbors[n] = adj
	}
	return &Grid{size: size, nodes: nodes, neighbors: neighbors}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Lookup returns the grid for the given size. Sizes outside
// [MinSize, MaxSize] return pattern.ErrUnsupportedGridSize.
func Lookup(size int) (*Grid, error) {
	g, ok := catalog[size]
	if !ok {
		return nil, fmt.Errorf("%w: %d (supported: %d..%d)",
			pattern.ErrUnsupportedGridSize, size, MinSize, MaxSize)
	}
	return g, nil
}

// Size returns the grid's edge length.
func (g *Grid) Size() int { return g.size }

// Nodes returns the catalog-ordered node list. The slice is shared
// immutable state; callers must not modify it.
func (g *Grid) Nodes() []pattern.Node { return g.nodes }

// Neighbors returns the stored-order adjacency list for n, or nil when n
// is not a node of this grid. The slice is shared immutable state;
// callers must not modify it.
func (g *Grid) Neighbors(n pattern.Node) []pattern.Node { return g.neighbors[n] }
