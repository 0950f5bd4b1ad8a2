package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Modulus is the prime modulus of the default field, p = 2^64 - 2^32 + 1
// (the Goldilocks prime). Its multiplicative group has order p-1 = 2^32 * (2^32 - 1),
// giving power-of-two subgroups up to order 2^32.
const Modulus uint64 = 0xFFFFFFFF00000001

// epsilon = 2^64 mod Modulus = 2^32 - 1, the correction term for wrapped
// 64-bit carries and borrows.
const epsilon uint64 = 1<<32 - 1

// generatorValue is the smallest multiplicative generator of the field.
const generatorValue uint64 = 7

// twoAdicity is the largest s such that 2^s divides Modulus-1.
const twoAdicity = 32

// primeFieldID identifies the default prime field in proof metadata.
const primeFieldID = "prime64/0xffffffff00000001"

// PrimeField64 is an element of the prime field of order Modulus.
// The stored value is always reduced modulo Modulus. The zero value is the
// additive identity. Arithmetic is constant-time: carries and borrows are
// folded in arithmetically, without early-exit branches on element values.
type PrimeField64 struct {
	value uint64
}

// NewPrimeField64 creates a field element, reducing value modulo Modulus.
func NewPrimeField64(value uint64) PrimeField64 {
	return PrimeField64{value: canonical(value)}
}

// Generator returns the smallest multiplicative generator of the field.
func Generator() PrimeField64 {
	return PrimeField64{value: generatorValue}
}

// canonical reduces v into [0, Modulus) with a branchless conditional subtract.
// Requires v < 2*Modulus, which holds for all internal callers; the public
// constructor path also satisfies it since 2*Modulus > 2^64.
func canonical(v uint64) uint64 {
	d, borrow := bits.Sub64(v, Modulus, 0)
	return d + borrow*Modulus
}

// Value returns the reduced representative of the element.
func (e PrimeField64) Value() uint64 {
	return e.value
}

// Add performs constant-time modular addition.
func (e PrimeField64) Add(other PrimeField64) PrimeField64 {
	sum, carry := bits.Add64(e.value, other.value, 0)
	sum += carry * epsilon
	return PrimeField64{value: canonical(sum)}
}

// Sub performs constant-time modular subtraction.
func (e PrimeField64) Sub(other PrimeField64) PrimeField64 {
	diff, borrow := bits.Sub64(e.value, other.value, 0)
	diff -= borrow * epsilon
	return PrimeField64{value: diff}
}

// Neg returns the additive inverse of the element.
func (e PrimeField64) Neg() PrimeField64 {
	return PrimeField64{}.Sub(e)
}

// Mul performs constant-time modular multiplication. The 128-bit product
// hi*2^64 + lo is reduced using 2^64 = 2^32 - 1 and 2^96 = -1 (mod Modulus).
func (e PrimeField64) Mul(other PrimeField64) PrimeField64 {
	hi, lo := bits.Mul64(e.value, other.value)

	hiHi := hi >> 32
	hiLo := hi & epsilon

	t, borrow := bits.Sub64(lo, hiHi, 0)
	t -= borrow * epsilon

	r, carry := bits.Add64(t, hiLo*epsilon, 0)
	r += carry * epsilon

	return PrimeField64{value: canonical(r)}
}

// Square returns the square of the element.
func (e PrimeField64) Square() PrimeField64 {
	return e.Mul(e)
}

// Pow performs modular exponentiation with a binary square-and-multiply
// ladder, processing exponent bits from least to most significant.
func (e PrimeField64) Pow(exponent uint64) PrimeField64 {
	result := PrimeField64{value: 1}
	base := e
	for exp := exponent; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}

// Inverse computes the multiplicative inverse via a constant-time
// exponentiation ladder (a^(p-2) = a^-1 by Fermat's little theorem).
// The second return value is false for the additive identity, which has no
// inverse; this is an expected algebraic outcome, not an error.
func (e PrimeField64) Inverse() (PrimeField64, bool) {
	if e.value == 0 {
		return PrimeField64{}, false
	}
	return e.Pow(Modulus - 2), true
}

// Div returns the quotient of the receiver by other. The second return value
// is false when other is the additive identity.
func (e PrimeField64) Div(other PrimeField64) (PrimeField64, bool) {
	inv, ok := other.Inverse()
	if !ok {
		return PrimeField64{}, false
	}
	return e.Mul(inv), true
}

// Sqrt computes a square root with the Tonelli-Shanks algorithm. The Legendre
// symbol is checked first via Euler's criterion; the second return value is
// false when the element is a non-residue. The multiplicative generator
// serves as the required quadratic non-residue.
func (e PrimeField64) Sqrt() (PrimeField64, bool) {
	if e.value == 0 {
		return PrimeField64{}, true
	}

	legendre := e.Pow((Modulus - 1) / 2)
	if !legendre.IsOne() {
		return PrimeField64{}, false
	}

	// Modulus-1 = q * 2^s with q odd.
	const q = (Modulus - 1) >> twoAdicity
	z := Generator().Pow(q)
	x := e.Pow((q + 1) / 2)
	t := e.Pow(q)
	m := uint64(twoAdicity)

	for !t.IsOne() {
		// Least i with t^(2^i) = 1.
		i := uint64(0)
		for u := t; !u.IsOne(); u = u.Square() {
			i++
		}

		b := z
		for j := uint64(0); j < m-i-1; j++ {
			b = b.Square()
		}

		x = x.Mul(b)
		z = b.Square()
		t = t.Mul(z)
		m = i
	}

	return x, true
}

// IsZero reports whether the element is the additive identity.
func (e PrimeField64) IsZero() bool {
	return e.value == 0
}

// IsOne reports whether the element is the multiplicative identity.
func (e PrimeField64) IsOne() bool {
	return e.value == 1
}

// Zero returns the additive identity.
func (e PrimeField64) Zero() PrimeField64 {
	return PrimeField64{}
}

// One returns the multiplicative identity.
func (e PrimeField64) One() PrimeField64 {
	return PrimeField64{value: 1}
}

// FromUint64 returns v reduced modulo Modulus.
func (e PrimeField64) FromUint64(v uint64) PrimeField64 {
	return NewPrimeField64(v)
}

// Characteristic returns the field characteristic, which equals Modulus.
func (e PrimeField64) Characteristic() uint64 {
	return Modulus
}

// PrimitiveRootOfUnity returns a generator of the multiplicative subgroup of
// the given order. Orders must be powers of two dividing 2^32; the second
// return value is false otherwise.
func (e PrimeField64) PrimitiveRootOfUnity(order uint64) (PrimeField64, bool) {
	if order == 0 || order&(order-1) != 0 || order > 1<<twoAdicity {
		return PrimeField64{}, false
	}
	return Generator().Pow((Modulus - 1) / order), true
}

// Bytes returns the fixed-width 32-byte little-endian encoding of the
// element, zero-padded beyond the low 8 bytes.
func (e PrimeField64) Bytes() [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[:8], e.value)
	return out
}

// PrimeField64FromBytes decodes the 32-byte little-endian encoding produced
// by Bytes, reducing the value modulo Modulus.
func PrimeField64FromBytes(b [32]byte) PrimeField64 {
	return NewPrimeField64(binary.LittleEndian.Uint64(b[:8]))
}

// FieldID identifies the field for proof metadata and configuration checks.
func (e PrimeField64) FieldID() string {
	return primeFieldID
}

// Random returns a uniformly random field element from crypto/rand, using
// rejection sampling to avoid modular bias. Test use only; protocol
// randomness is transcript-derived.
func (e PrimeField64) Random() PrimeField64 {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("failed to read randomness: " + err.Error())
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < Modulus {
			return PrimeField64{value: v}
		}
	}
}

// String returns a decimal representation of the element.
func (e PrimeField64) String() string {
	return fmt.Sprintf("%d", e.value)
}

// MarshalBinary implements encoding.BinaryMarshaler for proof serialization.
func (e PrimeField64) MarshalBinary() ([]byte, error) {
	b := e.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Inputs shorter than
// 32 bytes are rejected; the decoded value is reduced modulo Modulus.
func (e *PrimeField64) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("prime field element must be 32 bytes, got %d", len(data))
	}
	var b [32]byte
	copy(b[:], data)
	*e = PrimeField64FromBytes(b)
	return nil
}
