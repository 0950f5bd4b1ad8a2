package protocols

import (
	"fmt"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
)

// ConstraintType distinguishes the roles a constraint can play in an AIR.
type ConstraintType int

const (
	// TransitionConstraint relates adjacent trace rows.
	TransitionConstraint ConstraintType = iota
	// BoundaryConstraint pins a register to a value at a fixed step.
	BoundaryConstraint
	// AlgebraicConstraint is a general polynomial relation over a single row.
	AlgebraicConstraint
)

func (t ConstraintType) String() string {
	switch t {
	case TransitionConstraint:
		return "transition"
	case BoundaryConstraint:
		return "boundary"
	case AlgebraicConstraint:
		return "algebraic"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Constraint is one polynomial constraint of an AIR. For a transition
// constraint, Polynomial is the affine row describing the expected next
// value of register Register: expected = sum_j Polynomial[j]*cur[j] + last
// entry, and the constraint value at a row pair is
// challenge * (next[Register] - expected). The value is zero on every
// adjacent pair of a valid trace regardless of the challenge.
type Constraint[E core.Element[E]] struct {
	Polynomial []E            `cbor:"polynomial"`
	Degree     int            `cbor:"degree"`
	Type       ConstraintType `cbor:"type"`
	Register   int            `cbor:"register"`
}

// Equal reports whether two constraints are coefficient-wise identical.
func (c *Constraint[E]) Equal(other *Constraint[E]) bool {
	if c.Degree != other.Degree || c.Type != other.Type || c.Register != other.Register {
		return false
	}
	if len(c.Polynomial) != len(other.Polynomial) {
		return false
	}
	for i := range c.Polynomial {
		if c.Polynomial[i] != other.Polynomial[i] {
			return false
		}
	}
	return true
}

// Evaluate computes the constraint value at one adjacent row pair under the
// given transcript challenge.
func (c *Constraint[E]) Evaluate(challenge E, current, next []E) (E, error) {
	var zero E
	if len(c.Polynomial) != len(current)+1 {
		return zero, fmt.Errorf("constraint row has %d coefficients, expected %d",
			len(c.Polynomial), len(current)+1)
	}
	if c.Register < 0 || c.Register >= len(next) {
		return zero, fmt.Errorf("constraint register %d out of range [0, %d)", c.Register, len(next))
	}
	expected := c.Polynomial[len(current)]
	for j, cur := range current {
		expected = expected.Add(c.Polynomial[j].Mul(cur))
	}
	return challenge.Mul(next[c.Register].Sub(expected)), nil
}

// TransitionFunction is the state update of a computation as an affine map.
// Row r of Coefficients has NumRegisters+1 entries: the next value of
// register r is sum_j Coefficients[r][j]*cur[j] plus the final entry as the
// additive constant.
type TransitionFunction[E core.Element[E]] struct {
	Coefficients [][]E `cbor:"coefficients"`
	Degree       int   `cbor:"degree"`
}

// Equal reports whether two transition functions are coefficient-wise
// identical.
func (tf *TransitionFunction[E]) Equal(other *TransitionFunction[E]) bool {
	if tf.Degree != other.Degree || len(tf.Coefficients) != len(other.Coefficients) {
		return false
	}
	for r := range tf.Coefficients {
		if len(tf.Coefficients[r]) != len(other.Coefficients[r]) {
			return false
		}
		for j := range tf.Coefficients[r] {
			if tf.Coefficients[r][j] != other.Coefficients[r][j] {
				return false
			}
		}
	}
	return true
}

// NumRegisters returns the register count the transition operates on.
func (tf *TransitionFunction[E]) NumRegisters() int {
	return len(tf.Coefficients)
}

// Validate checks the coefficient matrix shape.
func (tf *TransitionFunction[E]) Validate() error {
	n := len(tf.Coefficients)
	if n == 0 {
		return fmt.Errorf("transition function must update at least one register")
	}
	for r, row := range tf.Coefficients {
		if len(row) != n+1 {
			return fmt.Errorf("transition row %d has %d coefficients, expected %d", r, len(row), n+1)
		}
	}
	if tf.Degree < 1 {
		return fmt.Errorf("transition degree must be at least 1, got %d", tf.Degree)
	}
	return nil
}

// Apply computes the next state from the current one.
func (tf *TransitionFunction[E]) Apply(state []E) ([]E, error) {
	n := tf.NumRegisters()
	if len(state) != n {
		return nil, fmt.Errorf("state has %d registers, transition expects %d", len(state), n)
	}
	next := make([]E, n)
	for r := 0; r < n; r++ {
		acc := tf.Coefficients[r][n]
		for j := 0; j < n; j++ {
			acc = acc.Add(tf.Coefficients[r][j].Mul(state[j]))
		}
		next[r] = acc
	}
	return next, nil
}

// NewCounterTransition builds the single-register increment-by-one
// transition: next = cur + 1. The seed supplies the field parameters.
func NewCounterTransition[E core.Element[E]](seed E) TransitionFunction[E] {
	return TransitionFunction[E]{
		Coefficients: [][]E{{seed.One(), seed.One()}},
		Degree:       1,
	}
}

// NewFibonacciTransition builds the two-register Fibonacci transition:
// next[0] = cur[1], next[1] = cur[0] + cur[1].
func NewFibonacciTransition[E core.Element[E]](seed E) TransitionFunction[E] {
	zero, one := seed.Zero(), seed.One()
	return TransitionFunction[E]{
		Coefficients: [][]E{
			{zero, one, zero},
			{one, one, zero},
		},
		Degree: 1,
	}
}

// TransitionConstraints derives one transition constraint per register of
// the transition function.
func TransitionConstraints[E core.Element[E]](tf TransitionFunction[E]) []Constraint[E] {
	constraints := make([]Constraint[E], tf.NumRegisters())
	for r := range constraints {
		row := make([]E, len(tf.Coefficients[r]))
		copy(row, tf.Coefficients[r])
		constraints[r] = Constraint[E]{
			Polynomial: row,
			Degree:     tf.Degree,
			Type:       TransitionConstraint,
			Register:   r,
		}
	}
	return constraints
}

// BoundaryCondition pins one register to a value at a fixed trace step.
type BoundaryCondition[E core.Element[E]] struct {
	Register int `cbor:"register"`
	Step     int `cbor:"step"`
	Value    E   `cbor:"value"`
}

// Air is the algebraic intermediate representation of a computation: its
// constraints, transition function, boundary conditions, and the security
// parameter the proof is generated under.
type Air[E core.Element[E]] struct {
	Constraints       []Constraint[E]       `cbor:"constraints"`
	Transition        TransitionFunction[E] `cbor:"transition"`
	Boundary          []BoundaryCondition[E] `cbor:"boundary"`
	SecurityParameter uint32                `cbor:"security_parameter"`
}

// NewAir builds an AIR from a transition function, deriving its transition
// constraints and pinning step 0 of every register to the initial state.
func NewAir[E core.Element[E]](tf TransitionFunction[E], initialState []E, securityParameter uint32) (*Air[E], error) {
	if err := tf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transition function: %w", err)
	}
	if len(initialState) != tf.NumRegisters() {
		return nil, fmt.Errorf("initial state has %d registers, transition expects %d",
			len(initialState), tf.NumRegisters())
	}
	boundary := make([]BoundaryCondition[E], len(initialState))
	for r, v := range initialState {
		boundary[r] = BoundaryCondition[E]{Register: r, Step: 0, Value: v}
	}
	air := &Air[E]{
		Constraints:       TransitionConstraints(tf),
		Transition:        tf,
		Boundary:          boundary,
		SecurityParameter: securityParameter,
	}
	if err := air.Validate(); err != nil {
		return nil, err
	}
	return air, nil
}

// Validate checks the AIR for structural consistency.
func (a *Air[E]) Validate() error {
	if len(a.Constraints) == 0 {
		return fmt.Errorf("AIR must have at least one constraint")
	}
	if a.SecurityParameter == 0 {
		return fmt.Errorf("AIR security parameter must be positive")
	}
	if err := a.Transition.Validate(); err != nil {
		return fmt.Errorf("invalid transition function: %w", err)
	}
	n := a.Transition.NumRegisters()
	for i, c := range a.Constraints {
		if len(c.Polynomial) == 0 {
			return fmt.Errorf("constraint %d has no coefficients", i)
		}
		if c.Degree < 0 {
			return fmt.Errorf("constraint %d has negative degree", i)
		}
		if c.Register < 0 || c.Register >= n {
			return fmt.Errorf("constraint %d references register %d, AIR has %d", i, c.Register, n)
		}
	}
	for i, b := range a.Boundary {
		if b.Register < 0 || b.Register >= n {
			return fmt.Errorf("boundary condition %d references register %d, AIR has %d", i, b.Register, n)
		}
		if b.Step < 0 {
			return fmt.Errorf("boundary condition %d has negative step", i)
		}
	}
	return nil
}

// Equal reports whether two AIRs describe the same computation: identical
// constraints, transition function, boundary conditions and security
// parameter.
func (a *Air[E]) Equal(other *Air[E]) bool {
	if other == nil {
		return false
	}
	if a.SecurityParameter != other.SecurityParameter {
		return false
	}
	if !a.Transition.Equal(&other.Transition) {
		return false
	}
	if len(a.Constraints) != len(other.Constraints) || len(a.Boundary) != len(other.Boundary) {
		return false
	}
	for i := range a.Constraints {
		if !a.Constraints[i].Equal(&other.Constraints[i]) {
			return false
		}
	}
	for i := range a.Boundary {
		if a.Boundary[i] != other.Boundary[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the AIR.
func (a *Air[E]) Clone() *Air[E] {
	constraints := make([]Constraint[E], len(a.Constraints))
	for i, c := range a.Constraints {
		row := make([]E, len(c.Polynomial))
		copy(row, c.Polynomial)
		c.Polynomial = row
		constraints[i] = c
	}
	coefficients := make([][]E, len(a.Transition.Coefficients))
	for r, row := range a.Transition.Coefficients {
		coefficients[r] = make([]E, len(row))
		copy(coefficients[r], row)
	}
	boundary := make([]BoundaryCondition[E], len(a.Boundary))
	copy(boundary, a.Boundary)
	return &Air[E]{
		Constraints:       constraints,
		Transition:        TransitionFunction[E]{Coefficients: coefficients, Degree: a.Transition.Degree},
		Boundary:          boundary,
		SecurityParameter: a.SecurityParameter,
	}
}
