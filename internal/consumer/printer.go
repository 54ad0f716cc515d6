package consumer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/gridlock/internal/grid"
	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Printer renders each candidate on its grid for visibility: a dot matrix
// showing which nodes the path touches, next to a matrix of step numbers.
// It never matches.
type Printer struct {
	grid *grid.Grid
	out  io.Writer
}

// NewPrinter returns a printer that writes renderings to out.
func NewPrinter(g *grid.Grid, out io.Writer) *Printer {
	return &Printer{grid: g, out: out}
}

func (pr *Printer) Offer(_ context.Context, p pattern.Path, _ int) (pattern.Outcome, error) {
	dots := pr.RenderDots(p)
	steps := pr.RenderSteps(p)
	fmt.Fprintf(pr.out, "path: %s\n", p)
	for i := range dots {
		fmt.Fprintf(pr.out, "  %s    %s\n", dots[i], steps[i])
	}
	fmt.Fprintln(pr.out)
	return pattern.Outcome{Code: pattern.CodeFailure, Info: "printed"}, nil
}

// RenderDots renders the grid one row per string, a filled dot for nodes
// the path touches and a hollow dot for the rest.
func (pr *Printer) RenderDots(p pattern.Path) []string {
	size := pr.grid.Size()
	nodes := pr.grid.Nodes()
	rows := make([]string, size)
	for y := 0; y < size; y++ {
		var b strings.Builder
		for x := 0; x < size; x++ {
			if indexOf(p, nodes[y*size+x]) >= 0 {
				b.WriteRune('●')
			} else {
				b.WriteRune('○')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// RenderSteps renders the grid with the 1-based step number at each node
// the path visits and a middle dot elsewhere, cells joined by spaces.
func (pr *Printer) RenderSteps(p pattern.Path) []string {
	size := pr.grid.Size()
	nodes := pr.grid.Nodes()
	rows := make([]string, size)
	for y := 0; y < size; y++ {
		cells := make([]string, size)
		for x := 0; x < size; x++ {
			if i := indexOf(p, nodes[y*size+x]); i >= 0 {
				cells[x] = fmt.Sprintf("%d", i+1)
			} else {
				cells[x] = "·"
			}
		}
		rows[y] = strings.Join(cells, " ")
	}
	return rows
}

func indexOf(p pattern.Path, n pattern.Node) int {
	for i, m := range p {
		if m == n {
			return i
		}
	}
	return -1
}
