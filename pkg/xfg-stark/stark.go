package xfgstark

import (
	"time"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/protocols"
)

// Version is the xfg-stark release version.
const Version = "1.0.0"

// Prover generates STARK proofs over the default prime field.
type Prover struct {
	inner *protocols.StarkProver[core.PrimeField64]
}

// NewProver creates a prover. A nil config selects the defaults.
func NewProver(config *Config) (*Prover, error) {
	inner, err := protocols.NewStarkProver[core.PrimeField64](config)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "invalid prover configuration", err)
	}
	return &Prover{inner: inner}, nil
}

// Prove generates a proof that running the AIR from the initial state for
// numSteps steps satisfies every constraint.
func (p *Prover) Prove(air *Air, initialState []FieldElement, numSteps int) (*Proof, error) {
	proof, err := p.inner.Prove(air, initialState, numSteps)
	if err != nil {
		return nil, newError(ErrProofGeneration, "proof generation failed", err)
	}
	return proof, nil
}

// Verifier checks STARK proofs over the default prime field. It is bound to
// one AIR at construction; the AIR embedded in a submitted proof must match
// it, so a proof cannot substitute a weaker statement.
type Verifier struct {
	inner *protocols.StarkVerifier[core.PrimeField64]
	air   *Air
}

// NewVerifier creates a verifier for the given AIR. A nil config selects the
// defaults.
func NewVerifier(air *Air, config *Config) (*Verifier, error) {
	if air == nil {
		return nil, newError(ErrInvalidAir, "verifier requires an AIR", nil)
	}
	if err := air.Validate(); err != nil {
		return nil, newError(ErrInvalidAir, "invalid AIR", err)
	}
	inner, err := protocols.NewStarkVerifier[core.PrimeField64](config)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "invalid verifier configuration", err)
	}
	return &Verifier{inner: inner, air: air.Clone()}, nil
}

// VerificationResult reports the outcome of a proof verification.
type VerificationResult struct {
	// Valid is true when the proof is well formed and its statement holds.
	Valid bool
	// Error is set only when the proof or the inputs were malformed; a
	// false statement with a well-formed proof leaves it nil.
	Error error
	// VerificationTimeMs is the wall-clock verification time.
	VerificationTimeMs int64
}

// Verify checks a proof against the verifier's AIR and the expected public
// inputs. A malformed proof yields a result with Error set; a well-formed
// proof of a false statement yields Valid=false with a nil Error.
func (v *Verifier) Verify(proof *Proof, publicInputs []FieldElement) (*VerificationResult, error) {
	start := time.Now()
	valid, err := v.inner.Verify(proof, v.air, publicInputs)
	result := &VerificationResult{
		Valid:              valid,
		VerificationTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = newError(ErrInvalidProof, "proof verification failed", err)
		return result, result.Error
	}
	return result, nil
}
