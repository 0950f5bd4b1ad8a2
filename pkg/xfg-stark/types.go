package xfgstark

import (
	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/protocols"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
)

// FieldElement is an element of the default 64-bit prime field
// (the Goldilocks prime 2^64 - 2^32 + 1).
type FieldElement = core.PrimeField64

// BinaryFieldElement is an element of a binary field GF(2^8), GF(2^16) or
// GF(2^32).
type BinaryFieldElement = core.BinaryField

// Polynomial is a univariate polynomial over the default prime field.
type Polynomial = core.Polynomial[core.PrimeField64]

// Proof is a STARK proof over the default prime field.
type Proof = protocols.StarkProof[core.PrimeField64]

// Air is an algebraic intermediate representation over the default prime
// field.
type Air = protocols.Air[core.PrimeField64]

// TransitionFunction is the affine state update of an AIR.
type TransitionFunction = protocols.TransitionFunction[core.PrimeField64]

// ExecutionTrace is the register trace of a computation.
type ExecutionTrace = protocols.ExecutionTrace[core.PrimeField64]

// Constraint is one polynomial constraint of an AIR.
type Constraint = protocols.Constraint[core.PrimeField64]

// BoundaryCondition pins a register value at a fixed trace step.
type BoundaryCondition = protocols.BoundaryCondition[core.PrimeField64]

// ProofMetadata carries bookkeeping attached to a proof.
type ProofMetadata = protocols.ProofMetadata

// Config holds the shared prover/verifier parameters.
type Config = utils.Config

// DefaultConfig returns the standard parameter set.
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// NewFieldElement creates an element of the default prime field from an
// integer, reducing modulo the field prime.
func NewFieldElement(value uint64) FieldElement {
	return core.NewPrimeField64(value)
}

// NewBinaryFieldElement creates an element of GF(2^degree). Supported
// degrees are 8, 16 and 32.
func NewBinaryFieldElement(value uint64, degree uint32) (BinaryFieldElement, error) {
	return core.NewBinaryField(value, degree)
}

// NewCounterAir builds the single-register counter AIR: each step adds one.
func NewCounterAir(securityParameter uint32, initialValue FieldElement) (*Air, error) {
	tf := protocols.NewCounterTransition(initialValue)
	air, err := protocols.NewAir(tf, []FieldElement{initialValue}, securityParameter)
	if err != nil {
		return nil, newError(ErrInvalidAir, "failed to build counter AIR", err)
	}
	return air, nil
}

// NewFibonacciAir builds the two-register Fibonacci AIR.
func NewFibonacciAir(securityParameter uint32, first, second FieldElement) (*Air, error) {
	tf := protocols.NewFibonacciTransition(first)
	air, err := protocols.NewAir(tf, []FieldElement{first, second}, securityParameter)
	if err != nil {
		return nil, newError(ErrInvalidAir, "failed to build Fibonacci AIR", err)
	}
	return air, nil
}

// ProofFromBytes deserializes a proof and revalidates its structure.
func ProofFromBytes(data []byte) (*Proof, error) {
	proof, err := protocols.StarkProofFromBytes[core.PrimeField64](data)
	if err != nil {
		return nil, newError(ErrSerialization, "failed to deserialize proof", err)
	}
	return proof, nil
}
