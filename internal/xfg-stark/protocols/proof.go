package protocols

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
)

// ProofVersion identifies the proof layout produced by this package. Bumped
// whenever the transcript or serialization format changes.
const ProofVersion = "1.0.0"

// ExecutionTrace holds the register values of a computation, one column per
// register, one entry per step.
type ExecutionTrace[E core.Element[E]] struct {
	Columns      [][]E `cbor:"columns"`
	Length       int   `cbor:"length"`
	NumRegisters int   `cbor:"num_registers"`
}

// Row returns the register values at the given step.
func (t *ExecutionTrace[E]) Row(step int) ([]E, error) {
	if step < 0 || step >= t.Length {
		return nil, fmt.Errorf("step %d out of range [0, %d)", step, t.Length)
	}
	row := make([]E, t.NumRegisters)
	for r := 0; r < t.NumRegisters; r++ {
		row[r] = t.Columns[r][step]
	}
	return row, nil
}

// Validate checks the trace dimensions for consistency.
func (t *ExecutionTrace[E]) Validate() error {
	if t.Length < 2 {
		return fmt.Errorf("trace length must be at least 2, got %d", t.Length)
	}
	if t.NumRegisters < 1 {
		return fmt.Errorf("trace must have at least one register, got %d", t.NumRegisters)
	}
	if len(t.Columns) != t.NumRegisters {
		return fmt.Errorf("trace has %d columns, expected %d", len(t.Columns), t.NumRegisters)
	}
	for r, col := range t.Columns {
		if len(col) != t.Length {
			return fmt.Errorf("column %d has %d entries, expected %d", r, len(col), t.Length)
		}
	}
	return nil
}

// MerkleCommitment is the commitment to a vector of field elements: the
// Merkle root over their canonical byte encodings plus the tree shape.
type MerkleCommitment struct {
	Root   []byte `cbor:"root"`
	Depth  int    `cbor:"depth"`
	Leaves int    `cbor:"leaves"`
}

// Validate checks that the commitment shape is internally consistent.
func (c *MerkleCommitment) Validate() error {
	if len(c.Root) != 32 {
		return fmt.Errorf("commitment root must be 32 bytes, got %d", len(c.Root))
	}
	if c.Leaves < 1 {
		return fmt.Errorf("commitment must cover at least one leaf, got %d", c.Leaves)
	}
	if c.Depth != utils.CeilLog2(c.Leaves) {
		return fmt.Errorf("commitment depth %d inconsistent with %d leaves", c.Depth, c.Leaves)
	}
	return nil
}

// CommitElements Merkle-commits a vector of field elements and returns the
// commitment together with the tree (needed by the prover for query paths).
func CommitElements[E core.Element[E]](values []E) (MerkleCommitment, *core.MerkleTree, error) {
	tree, err := core.NewMerkleTree(core.ElementLeaves(values))
	if err != nil {
		return MerkleCommitment{}, nil, err
	}
	return MerkleCommitment{
		Root:   tree.Root(),
		Depth:  tree.Depth(),
		Leaves: tree.NumLeaves(),
	}, tree, nil
}

// FriLayer is one committed codeword of the FRI folding sequence.
type FriLayer[E core.Element[E]] struct {
	// Evaluations is the full codeword over the layer's domain.
	Evaluations []E `cbor:"evaluations"`
	// Commitment binds the codeword; the verifier recomputes it.
	Commitment MerkleCommitment `cbor:"commitment"`
	// Degree is the claimed degree bound of the layer polynomial.
	Degree int `cbor:"degree"`
}

// FriQueryResponse is one opened codeword position with its inclusion path.
type FriQueryResponse[E core.Element[E]] struct {
	Index int              `cbor:"index"`
	Value E                `cbor:"value"`
	Path  []core.ProofNode `cbor:"path"`
}

// FriQuery is one verifier spot check: for each layer the pair of positions
// that fold together, in layer order (f(x) then f(-x) per layer).
type FriQuery[E core.Element[E]] struct {
	Index     int                   `cbor:"index"`
	Responses []FriQueryResponse[E] `cbor:"responses"`
}

// FriProof is the transcript of the FRI low-degree test: the committed
// layers, the final polynomial sent in the clear, and the query openings.
type FriProof[E core.Element[E]] struct {
	Layers          []FriLayer[E] `cbor:"layers"`
	FinalPolynomial []E           `cbor:"final_polynomial"`
	Queries         []FriQuery[E] `cbor:"queries"`
}

// Validate checks the structural invariants of the FRI proof: at least one
// layer, strictly decreasing degree bounds, halving domains, and consistent
// commitment shapes.
func (p *FriProof[E]) Validate() error {
	if len(p.Layers) == 0 {
		return fmt.Errorf("FRI proof must have at least one layer")
	}
	for i, layer := range p.Layers {
		if len(layer.Evaluations) == 0 {
			return fmt.Errorf("FRI layer %d has empty codeword", i)
		}
		if layer.Degree < 0 {
			return fmt.Errorf("FRI layer %d has negative degree bound", i)
		}
		if err := layer.Commitment.Validate(); err != nil {
			return fmt.Errorf("FRI layer %d commitment: %w", i, err)
		}
		if layer.Commitment.Leaves != len(layer.Evaluations) {
			return fmt.Errorf("FRI layer %d commitment covers %d leaves, codeword has %d",
				i, layer.Commitment.Leaves, len(layer.Evaluations))
		}
		if i > 0 {
			prev := p.Layers[i-1]
			if layer.Degree >= prev.Degree {
				return fmt.Errorf("FRI layer degrees must strictly decrease: layer %d has %d, layer %d has %d",
					i-1, prev.Degree, i, layer.Degree)
			}
			if len(layer.Evaluations)*2 != len(prev.Evaluations) {
				return fmt.Errorf("FRI layer %d domain must halve: got %d after %d",
					i, len(layer.Evaluations), len(prev.Evaluations))
			}
		}
	}
	if len(p.FinalPolynomial) == 0 {
		return fmt.Errorf("FRI proof missing final polynomial")
	}
	for q, query := range p.Queries {
		if len(query.Responses) != 2*len(p.Layers) {
			return fmt.Errorf("FRI query %d has %d responses, expected %d",
				q, len(query.Responses), 2*len(p.Layers))
		}
	}
	return nil
}

// ProofMetadata carries non-cryptographic bookkeeping attached to a proof.
type ProofMetadata struct {
	Version           string `cbor:"version"`
	SecurityParameter uint32 `cbor:"security_parameter"`
	FieldModulus      string `cbor:"field_modulus"`
	ProofSize         int    `cbor:"proof_size"`
	Timestamp         int64  `cbor:"timestamp"`
}

// StarkProof is the complete proof object: the execution trace, the AIR the
// trace is claimed to satisfy, the trace commitments, the FRI proof and the
// metadata. It is immutable once produced: verification never modifies it,
// and any mutation is detected by the commitment checks.
//
// The embedded AIR is part of the claim, not a verification input: the
// verifier checks it against the AIR it was constructed with, so a proof
// cannot substitute a weaker statement.
type StarkProof[E core.Element[E]] struct {
	Trace            ExecutionTrace[E]  `cbor:"trace"`
	Air              Air[E]             `cbor:"air"`
	TraceCommitments []MerkleCommitment `cbor:"trace_commitments"`
	Fri              FriProof[E]        `cbor:"fri"`
	PublicInputs     []E                `cbor:"public_inputs"`
	Metadata         ProofMetadata      `cbor:"metadata"`
}

// Validate checks the structural invariants of the proof. A validation error
// means the proof is malformed, not that the statement is false.
func (p *StarkProof[E]) Validate() error {
	if err := p.Trace.Validate(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if err := p.Air.Validate(); err != nil {
		return fmt.Errorf("air: %w", err)
	}
	if p.Trace.NumRegisters != p.Air.Transition.NumRegisters() {
		return fmt.Errorf("proof trace has %d registers, embedded AIR has %d",
			p.Trace.NumRegisters, p.Air.Transition.NumRegisters())
	}
	if len(p.TraceCommitments) != p.Trace.NumRegisters {
		return fmt.Errorf("proof has %d trace commitments, expected %d",
			len(p.TraceCommitments), p.Trace.NumRegisters)
	}
	for r, commitment := range p.TraceCommitments {
		if err := commitment.Validate(); err != nil {
			return fmt.Errorf("trace commitment %d: %w", r, err)
		}
		if commitment.Leaves != p.Trace.Length {
			return fmt.Errorf("trace commitment %d covers %d leaves, trace has %d steps",
				r, commitment.Leaves, p.Trace.Length)
		}
	}
	if err := p.Fri.Validate(); err != nil {
		return fmt.Errorf("fri: %w", err)
	}
	if len(p.PublicInputs) == 0 {
		return fmt.Errorf("proof missing public inputs")
	}
	if p.Metadata.Version == "" {
		return fmt.Errorf("proof missing version metadata")
	}
	if p.Metadata.SecurityParameter == 0 {
		return fmt.Errorf("proof metadata security parameter must be positive")
	}
	if p.Metadata.SecurityParameter != p.Air.SecurityParameter {
		return fmt.Errorf("proof metadata claims security parameter %d, embedded AIR has %d",
			p.Metadata.SecurityParameter, p.Air.SecurityParameter)
	}
	return nil
}

// Bytes serializes the proof with CBOR.
func (p *StarkProof[E]) Bytes() ([]byte, error) {
	data, err := cbor.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize proof: %w", err)
	}
	return data, nil
}

// StarkProofFromBytes deserializes a proof and revalidates its structure.
func StarkProofFromBytes[E core.Element[E]](data []byte) (*StarkProof[E], error) {
	var proof StarkProof[E]
	if err := cbor.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("failed to deserialize proof: %w", err)
	}
	if err := proof.Validate(); err != nil {
		return nil, fmt.Errorf("deserialized proof is malformed: %w", err)
	}
	return &proof, nil
}
