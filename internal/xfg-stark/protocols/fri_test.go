package protocols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/xfg-stark/internal/xfg-stark/core"
	"github.com/vybium/xfg-stark/internal/xfg-stark/utils"
)

func randomPolynomial(degree int) core.Polynomial[core.PrimeField64] {
	coeffs := make([]core.PrimeField64, degree+1)
	seed := core.NewPrimeField64(0)
	for i := range coeffs {
		coeffs[i] = seed.Random()
	}
	// Force the exact degree.
	if coeffs[degree].IsZero() {
		coeffs[degree] = seed.One()
	}
	return core.NewPolynomial(coeffs)
}

func friRoundTrip(t *testing.T, poly core.Polynomial[core.PrimeField64], claimedDegree int) (bool, error) {
	t.Helper()
	fri, err := NewFRIProtocol[core.PrimeField64](4, 8, 2)
	require.NoError(t, err)
	seed := fe(0)

	proverChannel := utils.NewChannel("sha3")
	proof, err := fri.Prove(poly, claimedDegree, seed, proverChannel)
	require.NoError(t, err)

	verifierChannel := utils.NewChannel("sha3")
	return fri.Verify(proof, claimedDegree, seed, verifierChannel)
}

func TestFRIProtocolParameters(t *testing.T) {
	_, err := NewFRIProtocol[core.PrimeField64](3, 8, 2)
	require.Error(t, err, "blowup must be a power of two")
	_, err = NewFRIProtocol[core.PrimeField64](4, 0, 2)
	require.Error(t, err)
	_, err = NewFRIProtocol[core.PrimeField64](4, 8, -1)
	require.Error(t, err)
}

func TestFRIAcceptsLowDegree(t *testing.T) {
	for _, degree := range []int{0, 1, 2, 7, 15, 31} {
		poly := randomPolynomial(degree)
		ok, err := friRoundTrip(t, poly, degree)
		require.NoError(t, err, "degree %d", degree)
		require.True(t, ok, "degree %d", degree)
	}
}

func TestFRIAcceptsZeroPolynomial(t *testing.T) {
	zero := core.NewConstantPolynomial(fe(0))
	ok, err := friRoundTrip(t, zero, 14)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFRIRejectsHighDegree(t *testing.T) {
	// Honest folding of a degree-12 polynomial under a degree-3 claim ends
	// with a final polynomial above the cutoff.
	poly := randomPolynomial(12)
	ok, err := friRoundTrip(t, poly, 3)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFRIRejectsTamperedProof(t *testing.T) {
	fri, err := NewFRIProtocol[core.PrimeField64](4, 8, 2)
	require.NoError(t, err)
	seed := fe(0)
	poly := randomPolynomial(10)

	prove := func() *FriProof[core.PrimeField64] {
		proof, err := fri.Prove(poly, 10, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		return proof
	}

	t.Run("codeword mutation", func(t *testing.T) {
		proof := prove()
		proof.Layers[0].Evaluations[1] = proof.Layers[0].Evaluations[1].Add(fe(1))
		ok, err := fri.Verify(proof, 10, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("final polynomial mutation", func(t *testing.T) {
		proof := prove()
		proof.FinalPolynomial[0] = proof.FinalPolynomial[0].Add(fe(1))
		ok, err := fri.Verify(proof, 10, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("query index mutation", func(t *testing.T) {
		proof := prove()
		proof.Queries[0].Index = (proof.Queries[0].Index + 1) % (len(proof.Layers[0].Evaluations) / 2)
		ok, err := fri.Verify(proof, 10, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("wrong claimed degree", func(t *testing.T) {
		proof := prove()
		ok, err := fri.Verify(proof, 20, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestFRIProofStructure(t *testing.T) {
	fri, err := NewFRIProtocol[core.PrimeField64](4, 8, 2)
	require.NoError(t, err)
	seed := fe(0)

	proof, err := fri.Prove(randomPolynomial(20), 20, seed, utils.NewChannel("sha3"))
	require.NoError(t, err)
	require.NoError(t, proof.Validate())

	t.Run("at least one layer", func(t *testing.T) {
		require.NotEmpty(t, proof.Layers)
	})

	t.Run("degrees strictly decrease", func(t *testing.T) {
		for i := 1; i < len(proof.Layers); i++ {
			require.Less(t, proof.Layers[i].Degree, proof.Layers[i-1].Degree)
		}
	})

	t.Run("domains halve", func(t *testing.T) {
		for i := 1; i < len(proof.Layers); i++ {
			require.Equal(t, len(proof.Layers[i-1].Evaluations)/2, len(proof.Layers[i].Evaluations))
		}
	})

	t.Run("queries carry full response chains", func(t *testing.T) {
		require.Len(t, proof.Queries, 8)
		for _, q := range proof.Queries {
			require.Len(t, q.Responses, 2*len(proof.Layers))
		}
	})

	t.Run("single layer below cutoff", func(t *testing.T) {
		small, err := fri.Prove(randomPolynomial(1), 1, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.Len(t, small.Layers, 1)

		ok, err := fri.Verify(small, 1, seed, utils.NewChannel("sha3"))
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("binary fields have no FRI domain", func(t *testing.T) {
		bseed, err := core.NewBinaryField(1, 8)
		require.NoError(t, err)
		friB, err := NewFRIProtocol[core.BinaryField](4, 8, 2)
		require.NoError(t, err)
		poly := core.NewConstantPolynomial(bseed)
		_, err = friB.Prove(poly, 4, bseed, utils.NewChannel("sha3"))
		require.Error(t, err)
	})
}
