package protocols

import (
	"fmt"
	"time"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
	"github.com/vybium/xfg-stark/logger"
)

// StarkProver generates STARK proofs for AIR computations. The same
// configuration must be used by the verifier.
type StarkProver[E core.Element[E]] struct {
	config *utils.Config
}

// NewStarkProver creates a prover. A nil config selects the defaults.
func NewStarkProver[E core.Element[E]](config *utils.Config) (*StarkProver[E], error) {
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prover configuration: %w", err)
	}
	return &StarkProver[E]{config: config.Clone()}, nil
}

// Config returns a copy of the prover's configuration.
func (p *StarkProver[E]) Config() *utils.Config {
	return p.config.Clone()
}

// Prove generates a proof that running the AIR's transition from the
// initial state for numSteps steps satisfies every constraint. On any
// failure no partial proof is returned.
//
// The full pipeline: trace generation, per-register trace commitments, a
// transcript-derived constraint challenge, constraint evaluation,
// composition into a single low-degree polynomial, and the FRI low-degree
// test over it.
func (p *StarkProver[E]) Prove(air *Air[E], initialState []E, numSteps int) (*StarkProof[E], error) {
	log := logger.Logger().With().Str("component", "prover").Logger()
	start := time.Now()

	if air == nil {
		return nil, fmt.Errorf("AIR must not be nil")
	}
	if err := air.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AIR: %w", err)
	}
	if len(initialState) == 0 {
		return nil, fmt.Errorf("initial state must not be empty")
	}
	seed := initialState[0]

	trace, err := GenerateTrace(air, initialState, numSteps)
	if err != nil {
		return nil, fmt.Errorf("trace generation failed: %w", err)
	}
	log.Debug().Int("steps", trace.Length).Int("registers", trace.NumRegisters).Msg("trace generated")

	channel := utils.NewChannel(p.config.HashFunction)
	for _, v := range initialState {
		b := v.Bytes()
		channel.Send(b[:])
	}

	traceCommitments := make([]MerkleCommitment, trace.NumRegisters)
	for r := 0; r < trace.NumRegisters; r++ {
		commitment, _, err := CommitElements(trace.Columns[r])
		if err != nil {
			return nil, fmt.Errorf("failed to commit trace register %d: %w", r, err)
		}
		traceCommitments[r] = commitment
		channel.Send(commitment.Root)
	}

	alpha := utils.ReceiveNonZeroElement(channel, seed)
	values, err := EvaluateConstraints(air, trace, alpha)
	if err != nil {
		return nil, fmt.Errorf("constraint evaluation failed: %w", err)
	}

	gamma := utils.ReceiveNonZeroElement(channel, seed)
	composition, claimedDegree, err := CompositionPolynomial(values, gamma)
	if err != nil {
		return nil, fmt.Errorf("constraint composition failed: %w", err)
	}
	log.Debug().Int("claimed_degree", claimedDegree).Msg("composition polynomial built")

	fri, err := NewFRIProtocol[E](p.config.BlowupFactor, p.config.NumQueries, p.config.FRIFinalDegree)
	if err != nil {
		return nil, fmt.Errorf("invalid FRI parameters: %w", err)
	}
	friProof, err := fri.Prove(composition, claimedDegree, seed, channel)
	if err != nil {
		return nil, fmt.Errorf("FRI proof generation failed: %w", err)
	}

	publicInputs := make([]E, len(initialState))
	copy(publicInputs, initialState)

	proof := &StarkProof[E]{
		Trace:            *trace,
		Air:              *air.Clone(),
		TraceCommitments: traceCommitments,
		Fri:              *friProof,
		PublicInputs:     publicInputs,
		Metadata: ProofMetadata{
			Version:           ProofVersion,
			SecurityParameter: air.SecurityParameter,
			FieldModulus:      seed.FieldID(),
			Timestamp:         time.Now().Unix(),
		},
	}

	// Proof size is measured on the serialized form, then recorded in the
	// metadata of the proof that is returned.
	encoded, err := proof.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to measure proof size: %w", err)
	}
	proof.Metadata.ProofSize = len(encoded)

	if err := proof.Validate(); err != nil {
		return nil, fmt.Errorf("generated proof is malformed: %w", err)
	}

	log.Info().
		Int("steps", numSteps).
		Int("fri_layers", len(friProof.Layers)).
		Int("proof_size", proof.Metadata.ProofSize).
		Dur("took", time.Since(start)).
		Msg("proof generated")
	return proof, nil
}
