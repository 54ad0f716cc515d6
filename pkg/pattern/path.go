package pattern

import "strings"

// Node identifies a single position in an unlock grid. Labels are
// single-character texts assigned row-major starting at '1' (the TWRP node
// codes), so comparing node texts follows catalog order.
type Node string

// Path is an ordered sequence of distinct nodes under evaluation as an
// unlock pattern candidate.
type Path []Node

// KeySeparator joins node texts in the canonical path serialization.
const KeySeparator = "-"

// Key returns the canonical text form of the path: node texts joined by
// KeySeparator, e.g. "1-2-6-9". The form is identical on every run, so
// ledger membership checks are exact string matches on these keys.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = string(n)
	}
	return strings.Join(parts, KeySeparator)
}

// String implements fmt.Stringer using the canonical key form.
func (p Path) String() string { return p.Key() }

// Joined returns the node texts concatenated without a separator. This is
// the wire form the TWRP decrypt command expects.
func (p Path) Joined() string {
	var b strings.Builder
	for _, n := range p {
		b.WriteString(string(n))
	}
	return b.String()
}

// ParseKey parses a canonical key back into a Path. Empty input yields nil.
func ParseKey(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, KeySeparator)
	p := make(Path, len(parts))
	for i, part := range parts {
		p[i] = Node(part)
	}
	return p
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q contain the same nodes in the same order.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasSuffix reports whether the trailing nodes of p equal suffix exactly.
// An empty suffix always matches.
func (p Path) HasSuffix(suffix Path) bool {
	if len(suffix) > len(p) {
		return false
	}
	return p[len(p)-len(suffix):].Equal(suffix)
}
