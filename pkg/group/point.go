// Package group implements the secp256k1 scalar and point arithmetic used by
// the ctproof protocol engine.
//
// It wraps github.com/decred/dcrd/dcrec/secp256k1/v4 with two invariants the
// rest of the engine relies on:
//   - a Point is never the identity
//   - a Scalar parsed from external bytes is in [1, n-1]
//
// Encodings:
//   - Scalars: 32-byte big-endian
//   - Points: 33-byte compressed (0x02/0x03 prefix + x-coordinate), or the
//     32-byte x-only form with implicit even Y
//
// Nothing here panics on adversarial input; malformed encodings produce
// BAD_POINT or BAD_SCALAR and identity results produce GROUP_FAILURE.
package group

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/suffix-labs/ctproof/pkg/fault"
)

const (
	// CompressedSize is the length of a compressed point encoding.
	CompressedSize = 33

	// XOnlySize is the length of an x-only point encoding.
	XOnlySize = 32
)

// Point is a non-identity element of secp256k1, stored in affine form.
type Point struct {
	p secp256k1.JacobianPoint
}

// BasePoint returns the conventional secp256k1 generator G.
func BasePoint() *Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)

	var g Point
	secp256k1.ScalarBaseMultNonConst(&one, &g.p)
	g.p.ToAffine()
	return &g
}

// ParsePoint decodes a 33-byte compressed point.
func ParsePoint(b []byte) (*Point, error) {
	if len(b) != CompressedSize {
		return nil, fault.New(fault.CodeBadPoint, "compressed point must be %d bytes, got %d", CompressedSize, len(b))
	}
	if b[0] != secp256k1.PubKeyFormatCompressedEven && b[0] != secp256k1.PubKeyFormatCompressedOdd {
		return nil, fault.New(fault.CodeBadPoint, "invalid compressed point prefix 0x%02x", b[0])
	}

	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fault.Wrap(fault.CodeBadPoint, err, "failed to decode point")
	}
	return PointFromPublicKey(pub), nil
}

// PointFromPublicKey converts a secp256k1 public key to a Point.
func PointFromPublicKey(pub *secp256k1.PublicKey) *Point {
	var p Point
	pub.AsJacobian(&p.p)
	return &p
}

// PublicKey returns p as a secp256k1 public key.
func (p *Point) PublicKey() *secp256k1.PublicKey {
	return secp256k1.NewPublicKey(&p.p.X, &p.p.Y)
}

// Compressed returns the 33-byte compressed encoding.
func (p *Point) Compressed() [CompressedSize]byte {
	var out [CompressedSize]byte
	copy(out[:], p.PublicKey().SerializeCompressed())
	return out
}

// XOnly returns the 32-byte x-coordinate. The encoding drops the Y parity.
func (p *Point) XOnly() [XOnlySize]byte {
	return *p.p.X.Bytes()
}

// HasEvenY reports whether the affine Y coordinate is even.
func (p *Point) HasEvenY() bool {
	return !p.p.Y.IsOdd()
}

// Equal reports whether p and q are the same group element.
func (p *Point) Equal(q *Point) bool {
	return p.p.X.Equals(&q.p.X) && p.p.Y.Equals(&q.p.Y)
}

// Add returns p + q. GROUP_FAILURE if the sum is the identity.
func (p *Point) Add(q *Point) (*Point, error) {
	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.p, &q.p, &sum)
	return fromJacobian(&sum, "point addition")
}

// Mul returns k*p. GROUP_FAILURE if the product is the identity.
func (p *Point) Mul(k *Scalar) (*Point, error) {
	if k.IsZero() {
		return nil, fault.New(fault.CodeGroupFailure, "scalar multiplication by zero")
	}
	var prod secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&k.s, &p.p, &prod)
	return fromJacobian(&prod, "scalar multiplication")
}

// LinearCombination returns sum(scalars[i] * points[i]).
//
// Individual terms may vanish (a zero scalar contributes nothing); only the
// final sum is checked against the identity.
func LinearCombination(scalars []*Scalar, points []*Point) (*Point, error) {
	if len(scalars) != len(points) {
		return nil, fault.New(fault.CodeGroupFailure, "linear combination of %d scalars and %d points", len(scalars), len(points))
	}

	var acc secp256k1.JacobianPoint
	for i := range scalars {
		if scalars[i].IsZero() {
			continue
		}
		var term, sum secp256k1.JacobianPoint
		secp256k1.ScalarMultNonConst(&scalars[i].s, &points[i].p, &term)
		if isIdentity(&acc) {
			acc.Set(&term)
			continue
		}
		secp256k1.AddNonConst(&acc, &term, &sum)
		acc.Set(&sum)
	}
	return fromJacobian(&acc, "linear combination")
}

// String returns the hex compressed encoding.
func (p *Point) String() string {
	c := p.Compressed()
	return hex.EncodeToString(c[:])
}

func fromJacobian(j *secp256k1.JacobianPoint, op string) (*Point, error) {
	if isIdentity(j) {
		return nil, fault.New(fault.CodeGroupFailure, "%s produced the identity", op)
	}
	var p Point
	p.p.Set(j)
	p.p.ToAffine()
	return &p, nil
}

func isIdentity(j *secp256k1.JacobianPoint) bool {
	var x, y, z secp256k1.FieldVal
	x.Set(&j.X).Normalize()
	y.Set(&j.Y).Normalize()
	z.Set(&j.Z).Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}
