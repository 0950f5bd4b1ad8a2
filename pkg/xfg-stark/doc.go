// Package xfgstark provides a STARK proving core over 64-bit prime and
// binary fields.
//
// xfg-stark arithmetizes a computation as an AIR (algebraic intermediate
// representation), generates its execution trace, commits to the trace with
// Merkle trees, reduces the constraint system to a single low-degree claim,
// and proves that claim with the FRI protocol. Verification replays the
// Fiat-Shamir transcript and checks every commitment.
//
// # Quick Start
//
// Proving a counter computation:
//
//	air, err := xfgstark.NewCounterAir(128, xfgstark.NewFieldElement(0))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	prover, err := xfgstark.NewProver(xfgstark.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := prover.Prove(air, []xfgstark.FieldElement{xfgstark.NewFieldElement(0)}, 16)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying it:
//
//	verifier, err := xfgstark.NewVerifier(air, xfgstark.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := verifier.Verify(proof, []xfgstark.FieldElement{xfgstark.NewFieldElement(0)})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if result.Valid {
//		fmt.Println("Proof is valid!")
//	}
//
// # Architecture
//
// xfg-stark uses a hybrid public/private architecture:
//
// - pkg/xfg-stark/: Public API (this package)
// - internal/xfg-stark/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
// - STARK proving and verification over the default prime field
// - AIR construction helpers
// - Proof serialization
//
// Implementation details in internal/ can be refactored without breaking the public API.
//
// # Fields
//
// The default field is the prime field modulo 2^64 - 2^32 + 1, whose
// two-adic multiplicative subgroups make it suitable for FRI domains. Binary
// fields GF(2^8), GF(2^16) and GF(2^32) are provided for algebraic use; they
// carry no suitable multiplicative domains and cannot back proof generation.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - FRI Paper: https://eccc.weizmann.ac.il/report/2017/134/
//
// # License
//
// See LICENSE file in the repository root.
package xfgstark
