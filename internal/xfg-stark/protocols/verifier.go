package protocols

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
	"github.com/vybium/xfg-stark/logger"
)

// StarkVerifier checks STARK proofs. Its configuration must match the one
// the proof was generated under.
type StarkVerifier[E core.Element[E]] struct {
	config *utils.Config
}

// NewStarkVerifier creates a verifier. A nil config selects the defaults.
func NewStarkVerifier[E core.Element[E]](config *utils.Config) (*StarkVerifier[E], error) {
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid verifier configuration: %w", err)
	}
	return &StarkVerifier[E]{config: config.Clone()}, nil
}

// Verify checks a proof against the AIR and the expected public inputs.
//
// The two failure modes are distinct: a non-nil error means the proof or the
// inputs are malformed (wrong shapes, wrong configuration), while (false,
// nil) means a well-formed proof whose statement does not hold. The proof is
// never modified.
//
// Five checks run in order: structural validation including the embedded
// AIR against the expected one, boundary conditions
// against the public inputs, trace commitment binding, constraint
// consistency with a composition spot check, and the FRI low-degree test.
func (v *StarkVerifier[E]) Verify(proof *StarkProof[E], air *Air[E], publicInputs []E) (bool, error) {
	log := logger.Logger().With().Str("component", "verifier").Logger()
	start := time.Now()

	if proof == nil {
		return false, fmt.Errorf("proof must not be nil")
	}
	if air == nil {
		return false, fmt.Errorf("AIR must not be nil")
	}
	if err := air.Validate(); err != nil {
		return false, fmt.Errorf("invalid AIR: %w", err)
	}
	if err := proof.Validate(); err != nil {
		return false, fmt.Errorf("malformed proof: %w", err)
	}
	// The embedded AIR states what the proof claims; it must be the very
	// AIR the verifier was asked to check, or a proof could smuggle in a
	// weaker statement.
	if !proof.Air.Equal(air) {
		return false, fmt.Errorf("proof AIR does not match the expected AIR")
	}
	if proof.Metadata.SecurityParameter != air.SecurityParameter {
		return false, fmt.Errorf("proof generated under security parameter %d, AIR requires %d",
			proof.Metadata.SecurityParameter, air.SecurityParameter)
	}
	if len(publicInputs) != air.Transition.NumRegisters() {
		return false, fmt.Errorf("got %d public inputs, AIR has %d registers",
			len(publicInputs), air.Transition.NumRegisters())
	}
	if proof.Trace.NumRegisters != air.Transition.NumRegisters() {
		return false, fmt.Errorf("proof trace has %d registers, AIR has %d",
			proof.Trace.NumRegisters, air.Transition.NumRegisters())
	}
	seed := publicInputs[0]
	if proof.Metadata.FieldModulus != seed.FieldID() {
		return false, fmt.Errorf("proof generated over field %s, expected %s",
			proof.Metadata.FieldModulus, seed.FieldID())
	}

	// Boundary: the committed public inputs and the trace's first row must
	// both match the expected inputs.
	for r, want := range publicInputs {
		if proof.PublicInputs[r] != want {
			log.Debug().Int("register", r).Msg("public input mismatch")
			return false, nil
		}
		if proof.Trace.Columns[r][0] != want {
			log.Debug().Int("register", r).Msg("trace boundary mismatch")
			return false, nil
		}
	}
	if ok, err := CheckBoundary(air, &proof.Trace); err != nil {
		return false, fmt.Errorf("boundary check failed: %w", err)
	} else if !ok {
		return false, nil
	}

	// Trace commitments must bind the trace columns exactly: any mutation
	// of a recorded register value changes the recomputed root.
	for r := 0; r < proof.Trace.NumRegisters; r++ {
		root, err := core.MerkleRoot(core.ElementLeaves(proof.Trace.Columns[r]))
		if err != nil {
			return false, fmt.Errorf("failed to recompute trace commitment %d: %w", r, err)
		}
		if !bytes.Equal(root, proof.TraceCommitments[r].Root) {
			log.Debug().Int("register", r).Msg("trace commitment mismatch")
			return false, nil
		}
	}

	// Replay the prover's transcript to derive the same challenges.
	channel := utils.NewChannel(v.config.HashFunction)
	for _, pv := range proof.PublicInputs {
		b := pv.Bytes()
		channel.Send(b[:])
	}
	for _, commitment := range proof.TraceCommitments {
		channel.Send(commitment.Root)
	}

	alpha := utils.ReceiveNonZeroElement(channel, seed)
	values, err := EvaluateConstraints(air, &proof.Trace, alpha)
	if err != nil {
		return false, fmt.Errorf("constraint evaluation failed: %w", err)
	}
	for k, seq := range values {
		for step, value := range seq {
			if !value.IsZero() {
				log.Debug().Int("constraint", k).Int("step", step).Msg("constraint violated")
				return false, nil
			}
		}
	}

	gamma := utils.ReceiveNonZeroElement(channel, seed)
	composition, claimedDegree, err := CompositionPolynomial(values, gamma)
	if err != nil {
		return false, fmt.Errorf("constraint composition failed: %w", err)
	}

	fri, err := NewFRIProtocol[E](v.config.BlowupFactor, v.config.NumQueries, v.config.FRIFinalDegree)
	if err != nil {
		return false, fmt.Errorf("invalid FRI parameters: %w", err)
	}

	// Spot-check that the first FRI codeword really is the evaluation of
	// the recomputed composition polynomial. Sampling runs on a forked
	// channel so the main transcript stays aligned with the prover's.
	if ok, err := v.checkCompositionBinding(fri, proof, composition, claimedDegree, seed, channel.Fork("composition-binding")); err != nil {
		return false, err
	} else if !ok {
		log.Debug().Msg("composition binding mismatch")
		return false, nil
	}

	ok, err := fri.Verify(&proof.Fri, claimedDegree, seed, channel)
	if err != nil {
		return false, fmt.Errorf("FRI verification failed: %w", err)
	}
	if !ok {
		log.Debug().Msg("FRI low-degree test rejected")
		return false, nil
	}

	log.Info().Dur("took", time.Since(start)).Msg("proof accepted")
	return true, nil
}

// checkCompositionBinding samples positions of the first FRI layer and
// compares them against a direct evaluation of the composition polynomial.
func (v *StarkVerifier[E]) checkCompositionBinding(fri *FRIProtocol[E], proof *StarkProof[E], composition core.Polynomial[E], claimedDegree int, seed E, side *utils.Channel) (bool, error) {
	n := fri.domainSize(claimedDegree)
	if len(proof.Fri.Layers[0].Evaluations) != n {
		return false, nil
	}
	omega, ok := seed.PrimitiveRootOfUnity(uint64(n))
	if !ok {
		return false, fmt.Errorf("field %s has no multiplicative domain of size %d", seed.FieldID(), n)
	}
	samples := v.config.NumQueries
	if samples > n {
		samples = n
	}
	for s := 0; s < samples; s++ {
		idx := side.ReceiveRandomIndex(n)
		x := omega.Pow(uint64(idx))
		if composition.Evaluate(x) != proof.Fri.Layers[0].Evaluations[idx] {
			return false, nil
		}
	}
	return true, nil
}
