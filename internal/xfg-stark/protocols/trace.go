package protocols

import (
	"fmt"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
)

// GenerateTrace runs the AIR's transition function from the initial state
// for numSteps steps and records every register value. Generation is
// deterministic: the same AIR and initial state always produce the same
// trace.
func GenerateTrace[E core.Element[E]](air *Air[E], initialState []E, numSteps int) (*ExecutionTrace[E], error) {
	if air == nil {
		return nil, fmt.Errorf("AIR must not be nil")
	}
	if err := air.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AIR: %w", err)
	}
	if numSteps < 2 {
		return nil, fmt.Errorf("trace must have at least 2 steps, got %d", numSteps)
	}
	n := air.Transition.NumRegisters()
	if len(initialState) != n {
		return nil, fmt.Errorf("initial state has %d registers, AIR expects %d", len(initialState), n)
	}

	columns := make([][]E, n)
	for r := range columns {
		columns[r] = make([]E, numSteps)
		columns[r][0] = initialState[r]
	}

	state := make([]E, n)
	copy(state, initialState)
	for step := 1; step < numSteps; step++ {
		next, err := air.Transition.Apply(state)
		if err != nil {
			return nil, fmt.Errorf("transition failed at step %d: %w", step, err)
		}
		for r := 0; r < n; r++ {
			columns[r][step] = next[r]
		}
		state = next
	}

	trace := &ExecutionTrace[E]{
		Columns:      columns,
		Length:       numSteps,
		NumRegisters: n,
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("generated trace is inconsistent: %w", err)
	}
	return trace, nil
}
