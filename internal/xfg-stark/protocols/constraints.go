package protocols

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
)

// EvaluateConstraints computes every constraint of the AIR over every
// adjacent row pair of the trace under the given transcript challenge. The
// result has one value sequence per constraint, each of length
// trace.Length-1. On a valid trace every value is zero.
//
// Constraints are evaluated concurrently; each goroutine writes only its own
// output slice.
func EvaluateConstraints[E core.Element[E]](air *Air[E], trace *ExecutionTrace[E], challenge E) ([][]E, error) {
	if air == nil || trace == nil {
		return nil, fmt.Errorf("AIR and trace must not be nil")
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace: %w", err)
	}
	if trace.NumRegisters != air.Transition.NumRegisters() {
		return nil, fmt.Errorf("trace has %d registers, AIR expects %d",
			trace.NumRegisters, air.Transition.NumRegisters())
	}

	numPairs := trace.Length - 1
	values := make([][]E, len(air.Constraints))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for k := range air.Constraints {
		k := k
		constraint := &air.Constraints[k]
		out := make([]E, numPairs)
		values[k] = out
		g.Go(func() error {
			current := make([]E, trace.NumRegisters)
			next := make([]E, trace.NumRegisters)
			for step := 0; step < numPairs; step++ {
				for r := 0; r < trace.NumRegisters; r++ {
					current[r] = trace.Columns[r][step]
					next[r] = trace.Columns[r][step+1]
				}
				v, err := constraint.Evaluate(challenge, current, next)
				if err != nil {
					return fmt.Errorf("constraint %d at step %d: %w", k, step, err)
				}
				out[step] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// CheckBoundary verifies every boundary condition of the AIR against the
// trace. It reports the first violated condition, or true when all hold.
func CheckBoundary[E core.Element[E]](air *Air[E], trace *ExecutionTrace[E]) (bool, error) {
	for i, b := range air.Boundary {
		if b.Step >= trace.Length {
			return false, fmt.Errorf("boundary condition %d pins step %d, trace has %d steps",
				i, b.Step, trace.Length)
		}
		if trace.Columns[b.Register][b.Step] != b.Value {
			return false, nil
		}
	}
	return true, nil
}

// CompositionPolynomial combines the constraint value sequences into a
// single polynomial: each sequence is interpolated over the first
// trace.Length-1 powers of a root of unity, and the interpolants are
// combined with powers of the combiner challenge. On a valid trace every
// sequence is zero, so the composition is the zero polynomial; its claimed
// degree bound for the low-degree test is trace.Length-2.
func CompositionPolynomial[E core.Element[E]](values [][]E, combiner E) (core.Polynomial[E], int, error) {
	var zeroPoly core.Polynomial[E]
	if len(values) == 0 {
		return zeroPoly, 0, fmt.Errorf("no constraint values to compose")
	}
	numPairs := len(values[0])
	if numPairs == 0 {
		return zeroPoly, 0, fmt.Errorf("constraint value sequences are empty")
	}
	for k, seq := range values {
		if len(seq) != numPairs {
			return zeroPoly, 0, fmt.Errorf("constraint %d has %d values, expected %d", k, len(seq), numPairs)
		}
	}

	seed := values[0][0]
	order := uint64(utils.NextPowerOfTwo(numPairs))
	omega, ok := seed.PrimitiveRootOfUnity(order)
	if !ok {
		return zeroPoly, 0, fmt.Errorf("field has no root of unity of order %d", order)
	}

	points := make([]core.Point[E], numPairs)
	x := seed.One()
	xs := make([]E, numPairs)
	for i := 0; i < numPairs; i++ {
		xs[i] = x
		x = x.Mul(omega)
	}

	composition := core.NewConstantPolynomial(seed.Zero())
	weight := seed.One()
	for _, seq := range values {
		for i := 0; i < numPairs; i++ {
			points[i] = core.Point[E]{X: xs[i], Y: seq[i]}
		}
		interpolant, ok := core.Interpolate(points)
		if !ok {
			return zeroPoly, 0, fmt.Errorf("constraint interpolation failed")
		}
		composition = composition.Add(interpolant.MulScalar(weight))
		weight = weight.Mul(combiner)
	}
	return composition, numPairs - 1, nil
}
