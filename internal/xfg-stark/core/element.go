package core

// Element is the capability set required of a field element type.
//
// It is a compile-time constraint rather than a runtime interface so that
// polynomials, traces and proofs are instantiated per concrete field and
// arithmetic stays free of dynamic dispatch.
//
// Implementations are small value types. Operations that depend on the field
// parameters (Zero, One, FromUint64, Random, PrimitiveRootOfUnity) derive
// those parameters from the receiver, so a valid element of the target field
// is always a sufficient seed.
type Element[E any] interface {
	comparable

	// Add returns the field sum of the receiver and other.
	Add(other E) E
	// Sub returns the field difference of the receiver and other.
	Sub(other E) E
	// Mul returns the field product of the receiver and other.
	Mul(other E) E
	// Neg returns the additive inverse of the receiver.
	Neg() E

	// Inverse returns the multiplicative inverse. The second return value is
	// false when the receiver is the additive identity, which has no inverse.
	Inverse() (E, bool)
	// Pow returns the receiver raised to the given exponent.
	Pow(exponent uint64) E
	// Sqrt returns a square root of the receiver. The second return value is
	// false when no square root exists in the field.
	Sqrt() (E, bool)

	// IsZero reports whether the receiver is the additive identity.
	IsZero() bool
	// IsOne reports whether the receiver is the multiplicative identity.
	IsOne() bool
	// Zero returns the additive identity of the receiver's field.
	Zero() E
	// One returns the multiplicative identity of the receiver's field.
	One() E

	// FromUint64 returns the image of v under the canonical ring homomorphism
	// from the integers into the receiver's field.
	FromUint64(v uint64) E
	// Characteristic returns the characteristic of the receiver's field.
	Characteristic() uint64
	// PrimitiveRootOfUnity returns a generator of the multiplicative subgroup
	// of the given order. The second return value is false when the field has
	// no such subgroup.
	PrimitiveRootOfUnity(order uint64) (E, bool)

	// Bytes returns the fixed-width 32-byte little-endian encoding.
	Bytes() [32]byte
	// FieldID returns a short identifier of the field the element belongs to,
	// used to detect prover/verifier field mismatches.
	FieldID() string
	// Random returns a uniformly random element of the receiver's field drawn
	// from a true randomness source. Test use only; transcript-bound
	// randomness comes from the Fiat-Shamir channel.
	Random() E
}
