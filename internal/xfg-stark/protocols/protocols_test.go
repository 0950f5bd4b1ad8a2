package protocols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
)

func fe(v uint64) core.PrimeField64 {
	return core.NewPrimeField64(v)
}

func counterAir(t *testing.T, start uint64) *Air[core.PrimeField64] {
	t.Helper()
	air, err := NewAir(NewCounterTransition(fe(0)), []core.PrimeField64{fe(start)}, 128)
	require.NoError(t, err)
	return air
}

func fibonacciAir(t *testing.T) *Air[core.PrimeField64] {
	t.Helper()
	air, err := NewAir(NewFibonacciTransition(fe(0)), []core.PrimeField64{fe(1), fe(1)}, 128)
	require.NoError(t, err)
	return air
}

func TestTransitionFunctions(t *testing.T) {
	t.Run("counter", func(t *testing.T) {
		tf := NewCounterTransition(fe(0))
		require.NoError(t, tf.Validate())
		require.Equal(t, 1, tf.NumRegisters())

		next, err := tf.Apply([]core.PrimeField64{fe(7)})
		require.NoError(t, err)
		require.Equal(t, uint64(8), next[0].Value())
	})

	t.Run("fibonacci", func(t *testing.T) {
		tf := NewFibonacciTransition(fe(0))
		require.NoError(t, tf.Validate())

		next, err := tf.Apply([]core.PrimeField64{fe(3), fe(5)})
		require.NoError(t, err)
		require.Equal(t, uint64(5), next[0].Value())
		require.Equal(t, uint64(8), next[1].Value())
	})

	t.Run("wrong state width", func(t *testing.T) {
		tf := NewCounterTransition(fe(0))
		_, err := tf.Apply([]core.PrimeField64{fe(1), fe(2)})
		require.Error(t, err)
	})
}

func TestAirValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, counterAir(t, 0).Validate())
	})

	t.Run("no constraints", func(t *testing.T) {
		air := counterAir(t, 0)
		air.Constraints = nil
		require.Error(t, air.Validate())
	})

	t.Run("zero security parameter", func(t *testing.T) {
		air := counterAir(t, 0)
		air.SecurityParameter = 0
		require.Error(t, air.Validate())
	})

	t.Run("constraint register out of range", func(t *testing.T) {
		air := counterAir(t, 0)
		air.Constraints[0].Register = 3
		require.Error(t, air.Validate())
	})

	t.Run("initial state width mismatch", func(t *testing.T) {
		_, err := NewAir(NewCounterTransition(fe(0)), []core.PrimeField64{fe(1), fe(2)}, 128)
		require.Error(t, err)
	})
}

func TestGenerateTrace(t *testing.T) {
	t.Run("counter values", func(t *testing.T) {
		trace, err := GenerateTrace(counterAir(t, 5), []core.PrimeField64{fe(5)}, 8)
		require.NoError(t, err)
		require.NoError(t, trace.Validate())
		require.Equal(t, 8, trace.Length)
		for step := 0; step < 8; step++ {
			require.Equal(t, uint64(5+step), trace.Columns[0][step].Value())
		}
	})

	t.Run("fibonacci values", func(t *testing.T) {
		trace, err := GenerateTrace(fibonacciAir(t), []core.PrimeField64{fe(1), fe(1)}, 10)
		require.NoError(t, err)

		expected := []uint64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
		for step, want := range expected {
			require.Equal(t, want, trace.Columns[1][step].Value(), "step %d", step)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := GenerateTrace(counterAir(t, 3), []core.PrimeField64{fe(3)}, 16)
		require.NoError(t, err)
		b, err := GenerateTrace(counterAir(t, 3), []core.PrimeField64{fe(3)}, 16)
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := GenerateTrace(counterAir(t, 0), []core.PrimeField64{fe(0)}, 1)
		require.Error(t, err)
	})

	t.Run("row access", func(t *testing.T) {
		trace, err := GenerateTrace(fibonacciAir(t), []core.PrimeField64{fe(1), fe(1)}, 4)
		require.NoError(t, err)

		row, err := trace.Row(2)
		require.NoError(t, err)
		require.Equal(t, uint64(2), row[0].Value())
		require.Equal(t, uint64(3), row[1].Value())

		_, err = trace.Row(4)
		require.Error(t, err)
	})
}

func TestEvaluateConstraints(t *testing.T) {
	challenge := fe(12345)

	t.Run("valid trace yields zeros", func(t *testing.T) {
		air := fibonacciAir(t)
		trace, err := GenerateTrace(air, []core.PrimeField64{fe(1), fe(1)}, 16)
		require.NoError(t, err)

		values, err := EvaluateConstraints(air, trace, challenge)
		require.NoError(t, err)
		require.Len(t, values, len(air.Constraints))
		for k, seq := range values {
			require.Len(t, seq, trace.Length-1)
			for step, v := range seq {
				require.True(t, v.IsZero(), "constraint %d step %d", k, step)
			}
		}
	})

	t.Run("corrupted trace yields nonzero", func(t *testing.T) {
		air := counterAir(t, 0)
		trace, err := GenerateTrace(air, []core.PrimeField64{fe(0)}, 8)
		require.NoError(t, err)
		trace.Columns[0][4] = fe(999)

		values, err := EvaluateConstraints(air, trace, challenge)
		require.NoError(t, err)
		// Steps 3->4 and 4->5 both break.
		require.False(t, values[0][3].IsZero())
		require.False(t, values[0][4].IsZero())
		require.True(t, values[0][2].IsZero())
	})

	t.Run("register width mismatch", func(t *testing.T) {
		air := fibonacciAir(t)
		trace, err := GenerateTrace(counterAir(t, 0), []core.PrimeField64{fe(0)}, 8)
		require.NoError(t, err)
		_, err = EvaluateConstraints(air, trace, challenge)
		require.Error(t, err)
	})
}

func TestCheckBoundary(t *testing.T) {
	air := counterAir(t, 7)
	trace, err := GenerateTrace(air, []core.PrimeField64{fe(7)}, 8)
	require.NoError(t, err)

	ok, err := CheckBoundary(air, trace)
	require.NoError(t, err)
	require.True(t, ok)

	trace.Columns[0][0] = fe(8)
	ok, err = CheckBoundary(air, trace)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompositionPolynomial(t *testing.T) {
	t.Run("zero on valid trace", func(t *testing.T) {
		air := fibonacciAir(t)
		trace, err := GenerateTrace(air, []core.PrimeField64{fe(1), fe(1)}, 8)
		require.NoError(t, err)

		values, err := EvaluateConstraints(air, trace, fe(42))
		require.NoError(t, err)

		composition, claimed, err := CompositionPolynomial(values, fe(9))
		require.NoError(t, err)
		require.Equal(t, trace.Length-2, claimed)
		require.True(t, composition.IsZero())
	})

	t.Run("nonzero on broken trace", func(t *testing.T) {
		air := counterAir(t, 0)
		trace, err := GenerateTrace(air, []core.PrimeField64{fe(0)}, 8)
		require.NoError(t, err)
		trace.Columns[0][3] = fe(100)

		values, err := EvaluateConstraints(air, trace, fe(42))
		require.NoError(t, err)

		composition, _, err := CompositionPolynomial(values, fe(9))
		require.NoError(t, err)
		require.False(t, composition.IsZero())
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, _, err := CompositionPolynomial[core.PrimeField64](nil, fe(1))
		require.Error(t, err)
	})
}
