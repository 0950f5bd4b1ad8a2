package core

import (
	"bytes"
	"fmt"
	"runtime"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"
)

// MerkleTree is a binary hash tree committing to a leaf sequence. Each
// internal node is the SHA3-256 hash of its two children. When a level has an
// odd node count, the last node is paired with itself; this padding rule is
// part of the commitment and is recomputed identically by verifiers.
type MerkleTree struct {
	root   []byte
	leaves [][]byte
	levels [][][]byte
}

// ProofNode is one step of a Merkle inclusion path.
type ProofNode struct {
	// Hash is the sibling hash at this level.
	Hash []byte
	// IsRight is true when the sibling is the right child.
	IsRight bool
}

// NewMerkleTree builds a Merkle tree over the given leaf data. Leaf hashing
// is parallelized; every leaf is hashed before being placed in the tree.
func NewMerkleTree(data [][]byte) (*MerkleTree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot build Merkle tree over empty data")
	}

	leaves := make([][]byte, len(data))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, item := range data {
		i, item := i, item
		g.Go(func() error {
			leaves[i] = hashNode(item)
			return nil
		})
	}
	// Hashing cannot fail; the group only bounds parallelism.
	_ = g.Wait()

	levels := [][][]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			right := current[i]
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, hashNode(append(append([]byte{}, current[i]...), right...)))
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{
		root:   current[0],
		leaves: leaves,
		levels: levels,
	}, nil
}

// Root returns the Merkle root.
func (mt *MerkleTree) Root() []byte {
	return append([]byte(nil), mt.root...)
}

// Depth returns the number of levels above the leaves, which equals
// ceil(log2(number of leaves)).
func (mt *MerkleTree) Depth() int {
	return len(mt.levels) - 1
}

// NumLeaves returns the number of committed leaves.
func (mt *MerkleTree) NumLeaves() int {
	return len(mt.leaves)
}

// Proof returns the sibling path from the leaf at index up to the root. When
// a node has no sibling at some level it is paired with itself, mirroring the
// tree construction.
func (mt *MerkleTree) Proof(index int) ([]ProofNode, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, len(mt.leaves))
	}

	proof := make([]ProofNode, 0, mt.Depth())
	current := index
	for level := 0; level < len(mt.levels)-1; level++ {
		nodes := mt.levels[level]
		sibling := current ^ 1
		if sibling >= len(nodes) {
			sibling = current
		}
		proof = append(proof, ProofNode{
			Hash:    nodes[sibling],
			IsRight: current%2 == 0,
		})
		current /= 2
	}
	return proof, nil
}

// VerifyMerkleProof recomputes the root from a leaf and its sibling path and
// compares it against the expected root.
func VerifyMerkleProof(root, leaf []byte, proof []ProofNode, index int) bool {
	if index < 0 {
		return false
	}
	hash := hashNode(leaf)
	current := index
	for _, node := range proof {
		if node.IsRight {
			hash = hashNode(append(append([]byte{}, hash...), node.Hash...))
		} else {
			hash = hashNode(append(append([]byte{}, node.Hash...), hash...))
		}
		current /= 2
	}
	return bytes.Equal(hash, root)
}

// MerkleRoot computes just the root of the given data.
func MerkleRoot(data [][]byte) ([]byte, error) {
	tree, err := NewMerkleTree(data)
	if err != nil {
		return nil, err
	}
	return tree.Root(), nil
}

// ElementLeaves encodes field elements as Merkle leaf data using the
// fixed-width byte codec.
func ElementLeaves[E Element[E]](values []E) [][]byte {
	leaves := make([][]byte, len(values))
	for i, v := range values {
		b := v.Bytes()
		leaves[i] = b[:]
	}
	return leaves
}

func hashNode(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}
