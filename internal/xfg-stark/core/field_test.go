package core

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestPrimeField64Basics(t *testing.T) {
	t.Run("canonical reduction", func(t *testing.T) {
		require.Equal(t, uint64(0), NewPrimeField64(Modulus).Value())
		require.Equal(t, uint64(1), NewPrimeField64(Modulus+1).Value())
		require.Equal(t, uint64(5), NewPrimeField64(5).Value())
	})

	t.Run("identities", func(t *testing.T) {
		a := NewPrimeField64(42)
		require.True(t, a.Add(a.Zero()) == a)
		require.True(t, a.Mul(a.One()) == a)
		require.True(t, a.Zero().IsZero())
		require.True(t, a.One().IsOne())
	})

	t.Run("negation wraps", func(t *testing.T) {
		a := NewPrimeField64(1)
		require.Equal(t, Modulus-1, a.Neg().Value())
		require.True(t, a.Add(a.Neg()).IsZero())
	})

	t.Run("multiplication overflow", func(t *testing.T) {
		// (p-1)^2 mod p == 1
		a := NewPrimeField64(Modulus - 1)
		require.True(t, a.Mul(a).IsOne())
	})

	t.Run("zero has no inverse", func(t *testing.T) {
		_, ok := NewPrimeField64(0).Inverse()
		require.False(t, ok)
	})

	t.Run("division by zero fails", func(t *testing.T) {
		_, ok := NewPrimeField64(7).Div(NewPrimeField64(0))
		require.False(t, ok)
	})
}

func TestPrimeField64Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000

	properties := gopter.NewProperties(parameters)

	properties.Property("(a + b) - b == a", prop.ForAll(
		func(a, b uint64) bool {
			x, y := NewPrimeField64(a), NewPrimeField64(b)
			return x.Add(y).Sub(y) == x
		},
		gen.UInt64(), gen.UInt64(),
	))

	properties.Property("a + (-a) == 0", prop.ForAll(
		func(a uint64) bool {
			x := NewPrimeField64(a)
			return x.Add(x.Neg()).IsZero()
		},
		gen.UInt64(),
	))

	properties.Property("(a * b) * a^-1 == b for a != 0", prop.ForAll(
		func(a, b uint64) bool {
			x, y := NewPrimeField64(a), NewPrimeField64(b)
			if x.IsZero() {
				return true
			}
			inv, ok := x.Inverse()
			if !ok {
				return false
			}
			return x.Mul(y).Mul(inv) == y
		},
		gen.UInt64(), gen.UInt64(),
	))

	properties.Property("multiplication distributes over addition", prop.ForAll(
		func(a, b, c uint64) bool {
			x, y, z := NewPrimeField64(a), NewPrimeField64(b), NewPrimeField64(c)
			return x.Mul(y.Add(z)) == x.Mul(y).Add(x.Mul(z))
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.Property("sqrt(a^2) squares back to a^2", prop.ForAll(
		func(a uint64) bool {
			x := NewPrimeField64(a)
			square := x.Mul(x)
			root, ok := square.Sqrt()
			if !ok {
				return false
			}
			return root.Mul(root) == square
		},
		gen.UInt64(),
	))

	properties.Property("bytes round-trip", prop.ForAll(
		func(a uint64) bool {
			x := NewPrimeField64(a)
			return PrimeField64FromBytes(x.Bytes()) == x
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPrimeField64Pow(t *testing.T) {
	a := NewPrimeField64(3)
	require.True(t, a.Pow(0).IsOne())
	require.Equal(t, uint64(3), a.Pow(1).Value())
	require.Equal(t, uint64(81), a.Pow(4).Value())

	// Fermat: a^(p-1) == 1 for a != 0
	require.True(t, NewPrimeField64(123456789).Pow(Modulus-1).IsOne())
}

func TestPrimeField64Sqrt(t *testing.T) {
	t.Run("non-residue has no root", func(t *testing.T) {
		// The generator is a quadratic non-residue.
		_, ok := Generator().Sqrt()
		require.False(t, ok)
	})

	t.Run("zero and one", func(t *testing.T) {
		z, ok := NewPrimeField64(0).Sqrt()
		require.True(t, ok)
		require.True(t, z.IsZero())

		o, ok := NewPrimeField64(1).Sqrt()
		require.True(t, ok)
		require.True(t, o.Mul(o).IsOne())
	})
}

func TestPrimitiveRootOfUnity(t *testing.T) {
	for _, order := range []uint64{1, 2, 4, 1024, 1 << 20} {
		omega, ok := NewPrimeField64(0).PrimitiveRootOfUnity(order)
		require.True(t, ok, "order %d", order)
		require.True(t, omega.Pow(order).IsOne())
		if order > 1 {
			require.False(t, omega.Pow(order/2).IsOne(), "order %d root is not primitive", order)
		}
	}

	t.Run("non power of two", func(t *testing.T) {
		_, ok := NewPrimeField64(0).PrimitiveRootOfUnity(3)
		require.False(t, ok)
	})

	t.Run("too large", func(t *testing.T) {
		_, ok := NewPrimeField64(0).PrimitiveRootOfUnity(1 << 33)
		require.False(t, ok)
	})
}

func TestPrimeField64Serialization(t *testing.T) {
	a := NewPrimeField64(0xDEADBEEF12345678)
	data, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 32)

	var b PrimeField64
	require.NoError(t, b.UnmarshalBinary(data))
	require.True(t, a == b)

	t.Run("wrong length rejected", func(t *testing.T) {
		var c PrimeField64
		require.Error(t, c.UnmarshalBinary(data[:31]))
	})
}

func TestPrimeField64Random(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		seen[NewPrimeField64(0).Random().Value()] = true
	}
	// 64 draws from a 64-bit field should essentially never collide.
	require.Greater(t, len(seen), 60)
}
