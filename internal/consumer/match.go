package consumer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

// Match reports success when a candidate equals a configured known path.
// It stands in for the device consumer when testing the enumeration
// without hardware.
type Match struct {
	want     pattern.Path
	attempt  int
	progress io.Writer
	log      *slog.Logger
}

// NewMatch returns a consumer that matches exactly the given path.
func NewMatch(want pattern.Path, progress io.Writer, logger *slog.Logger) *Match {
	return &Match{want: want.Clone(), progress: progress, log: logger}
}

func (m *Match) Offer(_ context.Context, p pattern.Path, total int) (pattern.Outcome, error) {
	m.attempt++
	if p.Equal(m.want) {
		m.log.Info("test pattern matched", "attempt", m.attempt, "path", p)
		m.report(p, total, "SUCCESS")
		return pattern.Outcome{
			Matched: true,
			Result:  p.Clone(),
			Code:    pattern.CodeSuccess,
			Info:    fmt.Sprintf("matched on attempt #%d", m.attempt),
		}, nil
	}
	m.report(p, total, "FAILED")
	return pattern.Outcome{
		Code: pattern.CodeFailure,
		Info: fmt.Sprintf("attempt #%d", m.attempt),
	}, nil
}

func (m *Match) report(p pattern.Path, total int, verdict string) {
	if m.progress == nil {
		return
	}
	if total > 0 {
		pct := float64(m.attempt) / float64(total) * 100
		fmt.Fprintf(m.progress, "path %d/%d (%.1f%%): %s - %s\n", m.attempt, total, pct, p, verdict)
		return
	}
	fmt.Fprintf(m.progress, "path %d: %s - %s\n", m.attempt, p, verdict)
}
