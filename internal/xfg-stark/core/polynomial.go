package core

import (
	"fmt"
	"strings"
)

// Polynomial is a dense polynomial over a field element type, stored with the
// constant term first. Coefficients beyond the stored length are the additive
// identity. The zero polynomial has degree 0 by convention.
type Polynomial[E Element[E]] struct {
	coeffs []E
}

// NewPolynomial creates a polynomial from the given coefficients, constant
// term first. The slice is copied.
func NewPolynomial[E Element[E]](coefficients []E) Polynomial[E] {
	coeffs := make([]E, len(coefficients))
	copy(coeffs, coefficients)
	return Polynomial[E]{coeffs: coeffs}
}

// NewConstantPolynomial creates a degree-0 polynomial with the given value.
func NewConstantPolynomial[E Element[E]](value E) Polynomial[E] {
	return Polynomial[E]{coeffs: []E{value}}
}

// zero returns the additive identity of the polynomial's coefficient field,
// falling back to the type's zero value for an empty polynomial.
func (p Polynomial[E]) zero() E {
	if len(p.coeffs) > 0 {
		return p.coeffs[0].Zero()
	}
	var z E
	return z.Zero()
}

// Degree returns the index of the highest non-zero coefficient, or 0 for the
// zero polynomial.
func (p Polynomial[E]) Degree() int {
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		if !p.coeffs[i].IsZero() {
			return i
		}
	}
	return 0
}

// IsZero reports whether every coefficient is the additive identity.
func (p Polynomial[E]) IsZero() bool {
	for _, c := range p.coeffs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Coefficient returns the coefficient of x^index, or the additive identity
// beyond the stored length.
func (p Polynomial[E]) Coefficient(index int) E {
	if index < 0 || index >= len(p.coeffs) {
		return p.zero()
	}
	return p.coeffs[index]
}

// LeadingCoefficient returns the coefficient of the highest-degree term.
func (p Polynomial[E]) LeadingCoefficient() E {
	return p.Coefficient(p.Degree())
}

// Coefficients returns a copy of the stored coefficients, constant term first.
func (p Polynomial[E]) Coefficients() []E {
	coeffs := make([]E, len(p.coeffs))
	copy(coeffs, p.coeffs)
	return coeffs
}

// Evaluate computes p(point) by Horner accumulation in O(degree) field
// multiplications.
func (p Polynomial[E]) Evaluate(point E) E {
	result := p.zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result.Mul(point).Add(p.coeffs[i])
	}
	return result
}

// Add returns the sum of two polynomials.
func (p Polynomial[E]) Add(other Polynomial[E]) Polynomial[E] {
	n := len(p.coeffs)
	if len(other.coeffs) > n {
		n = len(other.coeffs)
	}
	coeffs := make([]E, n)
	for i := 0; i < n; i++ {
		coeffs[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return Polynomial[E]{coeffs: coeffs}
}

// Sub returns the difference of two polynomials.
func (p Polynomial[E]) Sub(other Polynomial[E]) Polynomial[E] {
	n := len(p.coeffs)
	if len(other.coeffs) > n {
		n = len(other.coeffs)
	}
	coeffs := make([]E, n)
	for i := 0; i < n; i++ {
		coeffs[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return Polynomial[E]{coeffs: coeffs}
}

// Mul returns the product of two polynomials by coefficient convolution in
// O(deg(p) * deg(other)) field multiplications.
func (p Polynomial[E]) Mul(other Polynomial[E]) Polynomial[E] {
	if len(p.coeffs) == 0 || len(other.coeffs) == 0 {
		return Polynomial[E]{}
	}
	coeffs := make([]E, p.Degree()+other.Degree()+1)
	zero := p.zero()
	for i := range coeffs {
		coeffs[i] = zero
	}
	for i := 0; i <= p.Degree(); i++ {
		for j := 0; j <= other.Degree(); j++ {
			coeffs[i+j] = coeffs[i+j].Add(p.Coefficient(i).Mul(other.Coefficient(j)))
		}
	}
	return Polynomial[E]{coeffs: coeffs}
}

// MulScalar returns the polynomial with every coefficient multiplied by
// scalar.
func (p Polynomial[E]) MulScalar(scalar E) Polynomial[E] {
	coeffs := make([]E, len(p.coeffs))
	for i, c := range p.coeffs {
		coeffs[i] = c.Mul(scalar)
	}
	return Polynomial[E]{coeffs: coeffs}
}

// Divide performs polynomial long division, returning quotient and remainder
// with p = quotient*divisor + remainder and deg(remainder) < deg(divisor).
// The third return value is false when the division is undefined: the divisor
// is the zero polynomial, or its leading coefficient has no inverse in the
// coefficient field.
func (p Polynomial[E]) Divide(divisor Polynomial[E]) (Polynomial[E], Polynomial[E], bool) {
	if divisor.IsZero() {
		return Polynomial[E]{}, Polynomial[E]{}, false
	}

	divisorDegree := divisor.Degree()
	leadInv, ok := divisor.LeadingCoefficient().Inverse()
	if !ok {
		return Polynomial[E]{}, Polynomial[E]{}, false
	}

	zero := divisor.zero()
	if p.IsZero() || p.Degree() < divisorDegree {
		return NewConstantPolynomial(zero), NewPolynomial(p.coeffs), true
	}

	rem := make([]E, p.Degree()+1)
	for i := range rem {
		rem[i] = p.Coefficient(i)
	}
	quot := make([]E, p.Degree()-divisorDegree+1)
	for i := range quot {
		quot[i] = zero
	}

	for {
		// Trim trailing zero coefficients of the running remainder.
		for len(rem) > 1 && rem[len(rem)-1].IsZero() {
			rem = rem[:len(rem)-1]
		}
		remDegree := len(rem) - 1
		if remDegree < divisorDegree || (remDegree == 0 && rem[0].IsZero()) {
			break
		}

		c := rem[remDegree].Mul(leadInv)
		shift := remDegree - divisorDegree
		quot[shift] = c
		for j := 0; j <= divisorDegree; j++ {
			rem[shift+j] = rem[shift+j].Sub(c.Mul(divisor.Coefficient(j)))
		}
	}

	return Polynomial[E]{coeffs: quot}, Polynomial[E]{coeffs: rem}, true
}

// Derivative computes the term-wise formal derivative. Terms whose exponent
// is divisible by the field characteristic vanish, as required by polynomial
// calculus over positive-characteristic fields.
func (p Polynomial[E]) Derivative() Polynomial[E] {
	degree := p.Degree()
	zero := p.zero()
	if degree == 0 {
		return NewConstantPolynomial(zero)
	}

	char := p.coeffs[0].Characteristic()
	coeffs := make([]E, degree)
	for i := 1; i <= degree; i++ {
		if uint64(i)%char == 0 {
			coeffs[i-1] = zero
			continue
		}
		coeffs[i-1] = p.Coefficient(i).Mul(zero.FromUint64(uint64(i)))
	}
	return Polynomial[E]{coeffs: coeffs}
}

// Equal reports whether two polynomials have identical coefficients up to
// trailing zeros.
func (p Polynomial[E]) Equal(other Polynomial[E]) bool {
	n := len(p.coeffs)
	if len(other.coeffs) > n {
		n = len(other.coeffs)
	}
	for i := 0; i < n; i++ {
		if p.Coefficient(i) != other.Coefficient(i) {
			return false
		}
	}
	return true
}

// String renders the polynomial in descending-degree form.
func (p Polynomial[E]) String() string {
	if p.IsZero() {
		return "0"
	}

	var terms []string
	for i := p.Degree(); i >= 0; i-- {
		coeff := p.Coefficient(i)
		if coeff.IsZero() {
			continue
		}
		switch {
		case i == 0:
			terms = append(terms, fmt.Sprintf("%v", coeff))
		case i == 1 && coeff.IsOne():
			terms = append(terms, "x")
		case i == 1:
			terms = append(terms, fmt.Sprintf("%vx", coeff))
		case coeff.IsOne():
			terms = append(terms, fmt.Sprintf("x^%d", i))
		default:
			terms = append(terms, fmt.Sprintf("%vx^%d", coeff, i))
		}
	}
	return strings.Join(terms, " + ")
}

// Point is an (x, y) pair for polynomial interpolation.
type Point[E Element[E]] struct {
	X E
	Y E
}

// Interpolate performs Lagrange interpolation over n points in O(n^2) field
// multiplications. The x-coordinates must be pairwise distinct; duplicates
// make a basis denominator non-invertible and the second return value is
// false. An empty point set also yields false.
func Interpolate[E Element[E]](points []Point[E]) (Polynomial[E], bool) {
	if len(points) == 0 {
		return Polynomial[E]{}, false
	}

	zero := points[0].X.Zero()
	one := points[0].X.One()
	result := NewConstantPolynomial(zero)

	for i, pt := range points {
		basis := NewConstantPolynomial(one)
		denominator := one
		for j, other := range points {
			if i == j {
				continue
			}
			// basis *= (x - x_j), denominator *= (x_i - x_j)
			basis = basis.Mul(NewPolynomial([]E{other.X.Neg(), one}))
			denominator = denominator.Mul(pt.X.Sub(other.X))
		}

		denomInv, ok := denominator.Inverse()
		if !ok {
			return Polynomial[E]{}, false
		}
		result = result.Add(basis.MulScalar(pt.Y.Mul(denomInv)))
	}

	return result, true
}
