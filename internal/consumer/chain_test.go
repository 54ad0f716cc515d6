package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

type stubConsumer struct {
	name    string
	outcome pattern.Outcome
	err     error
	calls   int
}

func (s *stubConsumer) Offer(_ context.Context, p pattern.Path, _ int) (pattern.Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

func failing(name string) *stubConsumer {
	return &stubConsumer{name: name, outcome: pattern.Outcome{Code: pattern.CodeFailure, Info: name}}
}

func matching(name string) *stubConsumer {
	return &stubConsumer{name: name, outcome: pattern.Outcome{
		Matched: true,
		Result:  pattern.Path{"1", "2", "6", "9"},
		Code:    pattern.CodeSuccess,
		Info:    name,
	}}
}

func TestChain_Empty(t *testing.T) {
	c := NewChain()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.HasTerminal())

	out, terminal, err := c.Offer(context.Background(), pattern.Path{"1"}, 0)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Nil(t, terminal)
}

// TestChain_RegistrationOrderWins pins the deterministic tie-break: with
// two consumers that would both match, the one registered first wins, and
// consumers after the winner are never called.
func TestChain_RegistrationOrderWins(t *testing.T) {
	a := matching("a")
	b := matching("b")

	forward := NewChain()
	forward.Add(a)
	forward.Add(b)
	out, _, err := forward.Offer(context.Background(), pattern.Path{"1"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", out.Info)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, b.calls, "dispatch stops at the first match")

	a.calls, b.calls = 0, 0
	reverse := NewChain()
	reverse.Add(b)
	reverse.Add(a)
	out, _, err = reverse.Offer(context.Background(), pattern.Path{"1"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", out.Info)
	assert.Equal(t, 0, a.calls)
}

func TestChain_AllDecline(t *testing.T) {
	a := failing("a")
	b := failing("b")
	c := NewChain()
	c.Add(a)
	c.Add(b)

	out, terminal, err := c.Offer(context.Background(), pattern.Path{"1"}, 0)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Nil(t, terminal)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

// TestChain_TerminalOutcomeCaptured verifies the terminal consumer's
// outcome is handed back separately so the caller can record it, whether
// or not the candidate matched.
func TestChain_TerminalOutcomeCaptured(t *testing.T) {
	t.Run("terminal declines", func(t *testing.T) {
		c := NewChain()
		c.Add(failing("pass-through"))
		c.AddTerminal(failing("device"))
		require.True(t, c.HasTerminal())

		out, terminal, err := c.Offer(context.Background(), pattern.Path{"1"}, 0)
		require.NoError(t, err)
		assert.False(t, out.Matched)
		require.NotNil(t, terminal)
		assert.Equal(t, "device", terminal.Info)
	})

	t.Run("terminal matches", func(t *testing.T) {
		c := NewChain()
		c.AddTerminal(matching("device"))

		out, terminal, err := c.Offer(context.Background(), pattern.Path{"1", "2", "6", "9"}, 0)
		require.NoError(t, err)
		assert.True(t, out.Matched)
		require.NotNil(t, terminal)
		assert.True(t, terminal.Matched)
		assert.Equal(t, pattern.CodeSuccess, terminal.Code)
	})

	t.Run("earlier consumer matches before terminal", func(t *testing.T) {
		dev := failing("device")
		c := NewChain()
		c.Add(matching("matcher"))
		c.AddTerminal(dev)

		out, terminal, err := c.Offer(context.Background(), pattern.Path{"1"}, 0)
		require.NoError(t, err)
		assert.True(t, out.Matched)
		assert.Nil(t, terminal, "terminal never reached, nothing to record")
		assert.Equal(t, 0, dev.calls)
	})
}

func TestChain_ErrorAborts(t *testing.T) {
	boom := errors.New("device gone")
	bad := &stubConsumer{name: "bad", err: boom}
	after := failing("after")

	c := NewChain()
	c.Add(bad)
	c.Add(after)

	_, _, err := c.Offer(context.Background(), pattern.Path{"1"}, 0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, after.calls, "error aborts the candidate")
}
