package protocols

import (
	"bytes"
	"fmt"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
)

// FRIProtocol is the low-degree test: it convinces the verifier that a
// committed codeword is the evaluation of a polynomial of degree at most a
// claimed bound. Folding works on coefficients: each round splits the
// working polynomial into even and odd parts and combines them with a
// transcript challenge, halving the degree bound until it reaches
// finalDegree, at which point the remaining polynomial is sent in the clear.
type FRIProtocol[E core.Element[E]] struct {
	blowupFactor int
	numQueries   int
	finalDegree  int
}

// NewFRIProtocol creates a FRI instance.
func NewFRIProtocol[E core.Element[E]](blowupFactor, numQueries, finalDegree int) (*FRIProtocol[E], error) {
	if blowupFactor < 2 || !utils.IsPowerOfTwo(blowupFactor) {
		return nil, fmt.Errorf("blowup factor must be a power of two >= 2, got %d", blowupFactor)
	}
	if numQueries < 1 {
		return nil, fmt.Errorf("number of queries must be positive, got %d", numQueries)
	}
	if finalDegree < 0 {
		return nil, fmt.Errorf("final degree must be non-negative, got %d", finalDegree)
	}
	return &FRIProtocol[E]{
		blowupFactor: blowupFactor,
		numQueries:   numQueries,
		finalDegree:  finalDegree,
	}, nil
}

// schedule returns the claimed coefficient count at each committed layer.
// It is derived from the claimed degree alone, so prover and verifier agree
// on the layer structure without communication. There is always at least
// one layer.
func (fri *FRIProtocol[E]) schedule(claimedDegree int) []int {
	lengths := []int{claimedDegree + 1}
	l := claimedDegree + 1
	for l > fri.finalDegree+1 {
		l = (l + 1) / 2
		lengths = append(lengths, l)
	}
	return lengths
}

// domainSize returns the evaluation domain size for the first layer.
func (fri *FRIProtocol[E]) domainSize(claimedDegree int) int {
	return utils.NextPowerOfTwo((claimedDegree + 1) * fri.blowupFactor)
}

// Prove runs the commit and query phases for the given polynomial against
// the claimed degree bound. The polynomial's actual degree may exceed the
// claim; the resulting proof will then fail verification. The seed supplies
// the field parameters.
func (fri *FRIProtocol[E]) Prove(poly core.Polynomial[E], claimedDegree int, seed E, channel *utils.Channel) (*FriProof[E], error) {
	if claimedDegree < 0 {
		return nil, fmt.Errorf("claimed degree must be non-negative, got %d", claimedDegree)
	}

	coeffs := poly.Coefficients()
	for len(coeffs) < claimedDegree+1 {
		coeffs = append(coeffs, seed.Zero())
	}

	n := fri.domainSize(claimedDegree)
	omega, ok := seed.PrimitiveRootOfUnity(uint64(n))
	if !ok {
		return nil, fmt.Errorf("field %s has no multiplicative domain of size %d", seed.FieldID(), n)
	}

	lengths := fri.schedule(claimedDegree)
	layers := make([]FriLayer[E], 0, len(lengths))
	trees := make([]*core.MerkleTree, 0, len(lengths))

	current := coeffs
	for k, length := range lengths {
		evals := evaluateOnDomain(current, omega, n)
		commitment, tree, err := CommitElements(evals)
		if err != nil {
			return nil, fmt.Errorf("failed to commit FRI layer %d: %w", k, err)
		}
		channel.Send(commitment.Root)
		layers = append(layers, FriLayer[E]{
			Evaluations: evals,
			Commitment:  commitment,
			Degree:      length - 1,
		})
		trees = append(trees, tree)

		if k < len(lengths)-1 {
			beta := utils.ReceiveRandomElement(channel, seed)
			current = foldCoefficients(current, beta)
			omega = omega.Mul(omega)
			n /= 2
		}
	}

	finalPoly := make([]E, len(current))
	copy(finalPoly, current)
	for _, c := range finalPoly {
		b := c.Bytes()
		channel.Send(b[:])
	}

	queries := make([]FriQuery[E], fri.numQueries)
	for q := 0; q < fri.numQueries; q++ {
		idx := channel.ReceiveRandomIndex(len(layers[0].Evaluations) / 2)
		responses := make([]FriQueryResponse[E], 0, 2*len(layers))
		pos := idx
		for k := range layers {
			half := len(layers[k].Evaluations) / 2
			for _, i := range []int{pos, pos + half} {
				path, err := trees[k].Proof(i)
				if err != nil {
					return nil, fmt.Errorf("failed to open FRI layer %d at %d: %w", k, i, err)
				}
				responses = append(responses, FriQueryResponse[E]{
					Index: i,
					Value: layers[k].Evaluations[i],
					Path:  path,
				})
			}
			if k < len(layers)-1 {
				pos %= len(layers[k+1].Evaluations) / 2
			}
		}
		queries[q] = FriQuery[E]{Index: idx, Responses: responses}
	}

	return &FriProof[E]{
		Layers:          layers,
		FinalPolynomial: finalPoly,
		Queries:         queries,
	}, nil
}

// Verify checks a FRI proof against the claimed degree bound, replaying the
// prover's transcript on the given channel. A nil error with a false result
// means the proof is well formed but the low-degree claim does not hold; an
// error means the proof or the configuration is malformed.
func (fri *FRIProtocol[E]) Verify(proof *FriProof[E], claimedDegree int, seed E, channel *utils.Channel) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("proof must not be nil")
	}
	if claimedDegree < 0 {
		return false, fmt.Errorf("claimed degree must be non-negative, got %d", claimedDegree)
	}
	if err := proof.Validate(); err != nil {
		return false, fmt.Errorf("malformed FRI proof: %w", err)
	}

	lengths := fri.schedule(claimedDegree)
	if len(proof.Layers) != len(lengths) {
		return false, nil
	}
	n := fri.domainSize(claimedDegree)
	omega, ok := seed.PrimitiveRootOfUnity(uint64(n))
	if !ok {
		return false, fmt.Errorf("field %s has no multiplicative domain of size %d", seed.FieldID(), n)
	}
	inv2, ok := seed.FromUint64(2).Inverse()
	if !ok {
		return false, fmt.Errorf("field %s does not support folding (2 is not invertible)", seed.FieldID())
	}

	// Replay the commit phase: recompute every layer root from its codeword
	// and check each fold against the challenge it was derived under.
	betas := make([]E, 0, len(proof.Layers)-1)
	layerSize := n
	for k, layer := range proof.Layers {
		if len(layer.Evaluations) != layerSize {
			return false, nil
		}
		if layer.Degree != lengths[k]-1 {
			return false, nil
		}
		root, err := core.MerkleRoot(core.ElementLeaves(layer.Evaluations))
		if err != nil {
			return false, fmt.Errorf("failed to recompute FRI layer %d root: %w", k, err)
		}
		if !bytes.Equal(root, layer.Commitment.Root) {
			return false, nil
		}
		channel.Send(layer.Commitment.Root)
		if k < len(proof.Layers)-1 {
			betas = append(betas, utils.ReceiveRandomElement(channel, seed))
			layerSize /= 2
		}
	}

	for k := 0; k < len(proof.Layers)-1; k++ {
		if !fri.checkFold(proof.Layers[k], proof.Layers[k+1], betas[k], fri.layerGenerator(omega, k), inv2) {
			return false, nil
		}
	}

	for _, c := range proof.FinalPolynomial {
		b := c.Bytes()
		channel.Send(b[:])
	}
	if polynomialDegree(proof.FinalPolynomial) > fri.finalDegree {
		return false, nil
	}

	// The last committed codeword must be the evaluation of the final
	// polynomial over the last domain.
	last := proof.Layers[len(proof.Layers)-1]
	lastOmega := fri.layerGenerator(omega, len(proof.Layers)-1)
	finalEvals := evaluateOnDomain(proof.FinalPolynomial, lastOmega, len(last.Evaluations))
	for i := range finalEvals {
		if finalEvals[i] != last.Evaluations[i] {
			return false, nil
		}
	}

	// Replay the query phase: indices must match the transcript and every
	// opened position must sit inside its layer commitment.
	if len(proof.Queries) != fri.numQueries {
		return false, nil
	}
	for _, query := range proof.Queries {
		idx := channel.ReceiveRandomIndex(len(proof.Layers[0].Evaluations) / 2)
		if query.Index != idx {
			return false, nil
		}
		pos := idx
		for k, layer := range proof.Layers {
			half := len(layer.Evaluations) / 2
			for j, want := range []int{pos, pos + half} {
				resp := query.Responses[2*k+j]
				if resp.Index != want {
					return false, nil
				}
				if resp.Value != layer.Evaluations[resp.Index] {
					return false, nil
				}
				b := resp.Value.Bytes()
				if !core.VerifyMerkleProof(layer.Commitment.Root, b[:], resp.Path, resp.Index) {
					return false, nil
				}
			}
			if k < len(proof.Layers)-1 {
				pos %= len(proof.Layers[k+1].Evaluations) / 2
			}
		}
	}

	return true, nil
}

// checkFold verifies the folding relation between two adjacent layers at
// every point of the smaller domain:
// f_next(x^2) = (f(x)+f(-x))/2 + beta*(f(x)-f(-x))/(2x), with -x sitting at
// index i+n/2 of the larger domain.
func (fri *FRIProtocol[E]) checkFold(current, next FriLayer[E], beta, generator, inv2 E) bool {
	half := len(current.Evaluations) / 2
	if len(next.Evaluations) != half {
		return false
	}
	x := inv2.One()
	for i := 0; i < half; i++ {
		fx := current.Evaluations[i]
		fnegx := current.Evaluations[i+half]
		even := fx.Add(fnegx).Mul(inv2)
		xInv, ok := x.Inverse()
		if !ok {
			return false
		}
		odd := fx.Sub(fnegx).Mul(inv2).Mul(xInv)
		expected := even.Add(beta.Mul(odd))
		if next.Evaluations[i] != expected {
			return false
		}
		x = x.Mul(generator)
	}
	return true
}

// layerGenerator returns the domain generator of layer k: the base generator
// squared k times.
func (fri *FRIProtocol[E]) layerGenerator(omega E, k int) E {
	g := omega
	for i := 0; i < k; i++ {
		g = g.Mul(g)
	}
	return g
}

// foldCoefficients combines the even and odd coefficient halves under the
// challenge: next[i] = c[2i] + beta*c[2i+1].
func foldCoefficients[E core.Element[E]](coeffs []E, beta E) []E {
	folded := make([]E, (len(coeffs)+1)/2)
	for i := range folded {
		v := coeffs[2*i]
		if 2*i+1 < len(coeffs) {
			v = v.Add(beta.Mul(coeffs[2*i+1]))
		}
		folded[i] = v
	}
	return folded
}

// evaluateOnDomain evaluates the polynomial given by coeffs over the first
// n powers of the generator.
func evaluateOnDomain[E core.Element[E]](coeffs []E, generator E, n int) []E {
	evals := make([]E, n)
	x := generator.One()
	for i := 0; i < n; i++ {
		// Horner, highest coefficient first.
		acc := x.Zero()
		for j := len(coeffs) - 1; j >= 0; j-- {
			acc = acc.Mul(x).Add(coeffs[j])
		}
		evals[i] = acc
		x = x.Mul(generator)
	}
	return evals
}

// polynomialDegree returns the index of the highest non-zero coefficient,
// or 0 for the zero polynomial.
func polynomialDegree[E core.Element[E]](coeffs []E) int {
	for i := len(coeffs) - 1; i >= 0; i-- {
		if !coeffs[i].IsZero() {
			return i
		}
	}
	return 0
}
