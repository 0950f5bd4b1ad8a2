package core

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// ErrUnsupportedDegree is returned when constructing a binary field element
// over a degree without a configured irreducible polynomial. This is a
// configuration error surfaced at setup time, never a runtime panic.
var ErrUnsupportedDegree = fmt.Errorf("unsupported binary field degree (supported: 8, 16, 32)")

// BinaryField is an element of GF(2^degree) in polynomial representation.
// The stored value is always masked to degree bits. Arithmetic between
// elements of different degree is undefined and panics, matching the assert
// semantics of mixed-field arithmetic elsewhere in the package.
//
// Supported degrees and their reduction polynomials:
//
//	8:  x^8 + x^4 + x^3 + x + 1          (0x11B)
//	16: x^16 + x^5 + x^3 + x + 1         (0x1002B)
//	32: x^32 + x^7 + x^3 + x^2 + 1       (0x1000000AF)
type BinaryField struct {
	value  uint64
	degree uint32
}

// NewBinaryField creates an element of GF(2^degree), masking value to degree
// bits. Degrees other than 8, 16 and 32 yield ErrUnsupportedDegree.
func NewBinaryField(value uint64, degree uint32) (BinaryField, error) {
	switch degree {
	case 8, 16, 32:
	default:
		return BinaryField{}, fmt.Errorf("%w: %d", ErrUnsupportedDegree, degree)
	}
	mask := uint64(1)<<degree - 1
	return BinaryField{value: value & mask, degree: degree}, nil
}

// irreducible returns the reduction polynomial for the element's field.
func (e BinaryField) irreducible() uint64 {
	switch e.degree {
	case 8:
		return 0x11B
	case 16:
		return 0x1002B
	case 32:
		return 0x1000000AF
	}
	// Unreachable for elements built through NewBinaryField.
	panic(fmt.Sprintf("binary field element with unsupported degree %d", e.degree))
}

// checkDegree panics when two operands belong to different fields.
func (e BinaryField) checkDegree(other BinaryField) {
	if e.degree != other.degree {
		panic(fmt.Sprintf("binary field degree mismatch: %d vs %d", e.degree, other.degree))
	}
}

// Value returns the polynomial representation of the element.
func (e BinaryField) Value() uint64 {
	return e.value
}

// Degree returns the extension degree of the element's field.
func (e BinaryField) Degree() uint32 {
	return e.degree
}

// Add performs addition in characteristic 2, which is XOR.
func (e BinaryField) Add(other BinaryField) BinaryField {
	e.checkDegree(other)
	return BinaryField{value: e.value ^ other.value, degree: e.degree}
}

// Sub is identical to Add in characteristic 2.
func (e BinaryField) Sub(other BinaryField) BinaryField {
	return e.Add(other)
}

// Neg returns the element itself; every element is its own additive inverse
// in characteristic 2.
func (e BinaryField) Neg() BinaryField {
	return e
}

// Mul performs carry-less polynomial multiplication reduced by the field's
// irreducible polynomial. The loop runs a fixed degree-many iterations and
// folds conditional terms in arithmetically.
func (e BinaryField) Mul(other BinaryField) BinaryField {
	e.checkDegree(other)

	irr := e.irreducible()
	var result uint64
	a := e.value
	b := other.value

	for i := uint32(0); i < e.degree; i++ {
		result ^= a * (b & 1)
		carry := (a >> (e.degree - 1)) & 1
		a = (a << 1) ^ carry*irr
		b >>= 1
	}

	return BinaryField{value: result, degree: e.degree}
}

// Square returns the square of the element.
func (e BinaryField) Square() BinaryField {
	return e.Mul(e)
}

// Pow performs exponentiation with a binary square-and-multiply ladder.
func (e BinaryField) Pow(exponent uint64) BinaryField {
	result := BinaryField{value: 1, degree: e.degree}
	base := e
	for exp := exponent; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
	}
	return result
}

// Inverse computes the multiplicative inverse as x^(2^degree - 2), the
// Fermat inverse for the multiplicative group of order 2^degree - 1. The
// second return value is false for the additive identity.
func (e BinaryField) Inverse() (BinaryField, bool) {
	if e.value == 0 {
		return BinaryField{}, false
	}
	groupOrder := uint64(1)<<e.degree - 1
	return e.Pow(groupOrder - 1), true
}

// Sqrt returns the unique square root x^(2^(degree-1)). Squaring is a field
// automorphism in characteristic 2, so every element has exactly one square
// root and the second return value is always true.
func (e BinaryField) Sqrt() (BinaryField, bool) {
	result := e
	for i := uint32(0); i < e.degree-1; i++ {
		result = result.Square()
	}
	return result, true
}

// IsZero reports whether the element is the additive identity.
func (e BinaryField) IsZero() bool {
	return e.value == 0
}

// IsOne reports whether the element is the multiplicative identity.
func (e BinaryField) IsOne() bool {
	return e.value == 1
}

// Zero returns the additive identity of the receiver's field.
func (e BinaryField) Zero() BinaryField {
	return BinaryField{degree: e.degree}
}

// One returns the multiplicative identity of the receiver's field.
func (e BinaryField) One() BinaryField {
	return BinaryField{value: 1, degree: e.degree}
}

// FromUint64 returns the image of v under the ring homomorphism from the
// integers, which in characteristic 2 is v mod 2.
func (e BinaryField) FromUint64(v uint64) BinaryField {
	return BinaryField{value: v & 1, degree: e.degree}
}

// Characteristic returns 2.
func (e BinaryField) Characteristic() uint64 {
	return 2
}

// PrimitiveRootOfUnity reports no root for orders above 1: the multiplicative
// group has odd order 2^degree - 1, so power-of-two subgroups do not exist
// and multiplicative FRI domains cannot be built over this field.
func (e BinaryField) PrimitiveRootOfUnity(order uint64) (BinaryField, bool) {
	if order == 1 {
		return e.One(), true
	}
	return BinaryField{}, false
}

// Bytes returns the fixed-width 32-byte little-endian encoding of the
// element, zero-padded beyond the low 8 bytes.
func (e BinaryField) Bytes() [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[:8], e.value)
	return out
}

// BinaryFieldFromBytes decodes the 32-byte little-endian encoding produced
// by Bytes into an element of GF(2^degree).
func BinaryFieldFromBytes(b [32]byte, degree uint32) (BinaryField, error) {
	return NewBinaryField(binary.LittleEndian.Uint64(b[:8]), degree)
}

// FieldID identifies the field for proof metadata and configuration checks.
func (e BinaryField) FieldID() string {
	return fmt.Sprintf("binary/%d", e.degree)
}

// Random returns a uniformly random element of the receiver's field from
// crypto/rand. Test use only.
func (e BinaryField) Random() BinaryField {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("failed to read randomness: " + err.Error())
	}
	mask := uint64(1)<<e.degree - 1
	return BinaryField{value: binary.LittleEndian.Uint64(buf[:]) & mask, degree: e.degree}
}

// String returns a hexadecimal representation of the element.
func (e BinaryField) String() string {
	return fmt.Sprintf("0x%x/gf(2^%d)", e.value, e.degree)
}

// MarshalBinary implements encoding.BinaryMarshaler. The encoding carries the
// field degree so that deserialization restores the full element identity.
func (e BinaryField) MarshalBinary() ([]byte, error) {
	out := make([]byte, 12)
	binary.LittleEndian.PutUint64(out[:8], e.value)
	binary.LittleEndian.PutUint32(out[8:], e.degree)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *BinaryField) UnmarshalBinary(data []byte) error {
	if len(data) != 12 {
		return fmt.Errorf("binary field element must be 12 bytes, got %d", len(data))
	}
	elem, err := NewBinaryField(binary.LittleEndian.Uint64(data[:8]), binary.LittleEndian.Uint32(data[8:]))
	if err != nil {
		return err
	}
	*e = elem
	return nil
}
