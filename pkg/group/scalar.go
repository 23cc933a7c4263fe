package group

import (
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/suffix-labs/ctproof/pkg/fault"
)

// ScalarSize is the length of the big-endian scalar encoding.
const ScalarSize = 32

// maxSampleAttempts bounds RandomScalar's resampling loop. An honest CSPRNG
// needs a second draw with probability ~2^-128.
const maxSampleAttempts = 64

// Scalar is an integer modulo the secp256k1 group order n.
//
// Scalars built by ScalarFromBytes and RandomScalar are always in [1, n-1].
// ScalarFromUint64 encodes an amount and may be zero.
type Scalar struct {
	s secp256k1.ModNScalar
}

// ScalarFromBytes parses a 32-byte big-endian scalar, rejecting 0 and values >= n.
func ScalarFromBytes(b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fault.New(fault.CodeBadScalar, "scalar must be %d bytes, got %d", ScalarSize, len(b))
	}

	var buf [ScalarSize]byte
	copy(buf[:], b)

	var s Scalar
	if overflow := s.s.SetBytes(&buf); overflow != 0 {
		return nil, fault.New(fault.CodeBadScalar, "scalar is not below the group order")
	}
	if s.s.IsZero() {
		return nil, fault.New(fault.CodeBadScalar, "scalar is zero")
	}
	return &s, nil
}

// RandomScalar draws a uniform scalar in [1, n-1] from rand.
//
// Out-of-range draws are discarded and resampled. A reader that fails, or that
// never yields an in-range value, produces RNG_FAILURE.
func RandomScalar(rand io.Reader) (*Scalar, error) {
	var buf [ScalarSize]byte
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, fault.Wrap(fault.CodeRngFailure, err, "failed to read scalar randomness")
		}
		s, err := ScalarFromBytes(buf[:])
		if err == nil {
			zero(buf[:])
			return s, nil
		}
	}
	zero(buf[:])
	return nil, fault.New(fault.CodeRngFailure, "randomness source produced no valid scalar in %d draws", maxSampleAttempts)
}

// ScalarFromUint64 encodes v as a scalar: 24 zero bytes followed by v in
// big-endian order. The result is zero when v is zero.
func ScalarFromUint64(v uint64) *Scalar {
	var buf [ScalarSize]byte
	for i := 0; i < 8; i++ {
		buf[ScalarSize-1-i] = byte(v >> (8 * i))
	}

	var s Scalar
	s.s.SetBytes(&buf)
	return &s
}

// Bytes returns the 32-byte big-endian encoding.
func (s *Scalar) Bytes() [ScalarSize]byte {
	return s.s.Bytes()
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero()
}

// Equal reports whether s and o are the same scalar.
func (s *Scalar) Equal(o *Scalar) bool {
	return s.s.Equals(&o.s)
}

// Add returns s + o mod n.
func (s *Scalar) Add(o *Scalar) *Scalar {
	var r Scalar
	r.s.Add2(&s.s, &o.s)
	return &r
}

// Mul returns s * o mod n.
func (s *Scalar) Mul(o *Scalar) *Scalar {
	var r Scalar
	r.s.Mul2(&s.s, &o.s)
	return &r
}

// Negate returns -s mod n.
func (s *Scalar) Negate() *Scalar {
	var r Scalar
	r.s.NegateVal(&s.s)
	return &r
}

// ModNScalar exposes the underlying value for interop with secp256k1 key types.
func (s *Scalar) ModNScalar() *secp256k1.ModNScalar {
	var r secp256k1.ModNScalar
	r.Set(&s.s)
	return &r
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
