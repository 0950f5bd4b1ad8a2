package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
)

func TestChannelDeterminism(t *testing.T) {
	run := func() []uint64 {
		c := NewChannel("sha3")
		c.Send([]byte("commitment-1"))
		draws := []uint64{c.ReceiveRandomUint64()}
		c.Send([]byte("commitment-2"))
		draws = append(draws, c.ReceiveRandomUint64(), c.ReceiveRandomUint64())
		return draws
	}

	first := run()
	second := run()
	require.Equal(t, first, second, "identical transcripts must yield identical draws")
}

func TestChannelReceiveBeforeSend(t *testing.T) {
	var draw uint64
	require.NotPanics(t, func() {
		draw = NewChannel("sha3").ReceiveRandomUint64()
	})
	require.Equal(t, draw, NewChannel("sha3").ReceiveRandomUint64(),
		"fresh channels must agree on the first draw")

	require.NotPanics(t, func() {
		NewChannel("sha256").ReceiveRandomIndex(16)
	})
}

func TestChannelDivergence(t *testing.T) {
	a := NewChannel("sha3")
	b := NewChannel("sha3")
	a.Send([]byte("data"))
	b.Send([]byte("tampered"))
	require.NotEqual(t, a.ReceiveRandomUint64(), b.ReceiveRandomUint64())
}

func TestChannelStateAdvances(t *testing.T) {
	c := NewChannel("sha3")
	before := c.State()
	c.Send([]byte("x"))
	afterSend := c.State()
	require.NotEqual(t, before, afterSend)

	c.ReceiveRandomUint64()
	require.NotEqual(t, afterSend, c.State())
}

func TestChannelRandomIndex(t *testing.T) {
	c := NewChannel("sha3")
	c.Send([]byte("seed"))
	for i := 0; i < 100; i++ {
		idx := c.ReceiveRandomIndex(7)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 7)
	}

	require.Panics(t, func() { c.ReceiveRandomIndex(0) })
}

func TestChannelHashFunctions(t *testing.T) {
	sha3ch := NewChannel("sha3")
	sha256ch := NewChannel("sha256")
	sha3ch.Send([]byte("same data"))
	sha256ch.Send([]byte("same data"))
	require.NotEqual(t, sha3ch.ReceiveRandomUint64(), sha256ch.ReceiveRandomUint64())
}

func TestChannelFork(t *testing.T) {
	c := NewChannel("sha3")
	c.Send([]byte("data"))
	stateBefore := c.State()

	fork := c.Fork("side")
	require.Equal(t, stateBefore, c.State(), "forking must not advance the parent")

	// Forks with different labels diverge.
	other := c.Fork("other")
	require.NotEqual(t, fork.ReceiveRandomUint64(), other.ReceiveRandomUint64())
}

func TestReceiveRandomElement(t *testing.T) {
	seed := core.NewPrimeField64(0)

	a := NewChannel("sha3")
	b := NewChannel("sha3")
	a.Send([]byte("root"))
	b.Send([]byte("root"))
	require.True(t, ReceiveRandomElement(a, seed) == ReceiveRandomElement(b, seed))

	c := NewChannel("sha3")
	c.Send([]byte("root"))
	e := ReceiveNonZeroElement(c, seed)
	require.False(t, e.IsZero())
}
