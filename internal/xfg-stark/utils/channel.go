package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
)

// Channel is a Fiat-Shamir transcript. The prover absorbs each commitment
// into the channel state and squeezes verifier challenges from it; the
// verifier replays the same sequence and derives identical challenges.
//
// The derivation rule is fixed: on Send, state' = H(state || data); on any
// receive, the draw is the first 8 bytes of the state interpreted big-endian,
// after which state' = H(state). H is SHA3-256 by default.
type Channel struct {
	state    []byte
	proof    []string
	hashFunc string
}

// NewChannel creates a new Fiat-Shamir channel. Supported hash functions are
// "sha3" (default) and "sha256". The initial state is a full hash digest, so
// a receive is valid at any point, including before the first send.
func NewChannel(hashFunc string) *Channel {
	if hashFunc == "" {
		hashFunc = "sha3"
	}
	c := &Channel{
		proof:    make([]string, 0, 64),
		hashFunc: hashFunc,
	}
	c.state = c.hash([]byte{0})
	return c
}

// Send absorbs prover data into the channel state.
func (c *Channel) Send(data []byte) {
	c.proof = append(c.proof, "send:"+hex.EncodeToString(data))
	c.state = c.hash(append(append([]byte{}, c.state...), data...))
}

// ReceiveRandomUint64 squeezes a pseudorandom 64-bit draw from the channel.
func (c *Channel) ReceiveRandomUint64() uint64 {
	draw := binary.BigEndian.Uint64(c.state[:8])
	c.proof = append(c.proof, fmt.Sprintf("receiveUint64:%d", draw))
	c.state = c.hash(c.state)
	return draw
}

// ReceiveRandomIndex squeezes a pseudorandom index in [0, n). n must be
// positive.
func (c *Channel) ReceiveRandomIndex(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("random index range must be positive, got %d", n))
	}
	return int(c.ReceiveRandomUint64() % uint64(n))
}

// State returns a copy of the current channel state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Fork derives an independent channel from the current state without
// advancing it. Used for auxiliary sampling that must not desynchronize the
// prover/verifier transcript replay.
func (c *Channel) Fork(label string) *Channel {
	forked := NewChannel(c.hashFunc)
	forked.Send(c.state)
	forked.Send([]byte(label))
	return forked
}

// Proof returns the transcript log, useful for debugging divergence between
// prover and verifier replays.
func (c *Channel) Proof() []string {
	return append([]string(nil), c.proof...)
}

// String returns the transcript log as a single string.
func (c *Channel) String() string {
	return strings.Join(c.proof, " ")
}

func (c *Channel) hash(data []byte) []byte {
	switch c.hashFunc {
	case "sha256":
		h := sha256.Sum256(data)
		return h[:]
	default:
		h := sha3.Sum256(data)
		return h[:]
	}
}

// ReceiveRandomElement squeezes a pseudorandom field element from the
// channel. The seed supplies the field parameters; the draw is reduced into
// the field by the element's integer embedding.
func ReceiveRandomElement[E core.Element[E]](c *Channel, seed E) E {
	return seed.FromUint64(c.ReceiveRandomUint64())
}

// ReceiveNonZeroElement squeezes a pseudorandom non-zero field element,
// redrawing on the (negligibly likely) zero outcome.
func ReceiveNonZeroElement[E core.Element[E]](c *Channel, seed E) E {
	for {
		e := ReceiveRandomElement(c, seed)
		if !e.IsZero() {
			return e
		}
	}
}
