package group

import (
	"crypto/sha256"

	"github.com/suffix-labs/ctproof/pkg/fault"
)

// HashToScalar maps domain || msg to a non-zero scalar.
//
// The SHA-256 digest is read big-endian and reduced mod n. If the result is
// zero the input is rehashed with a one-byte counter appended:
// domain || msg || 0x01, domain || msg || 0x02, ...
func HashToScalar(domain, msg []byte) (*Scalar, error) {
	for ctr := 0; ctr < 256; ctr++ {
		h := sha256.New()
		h.Write(domain)
		h.Write(msg)
		if ctr > 0 {
			h.Write([]byte{byte(ctr)})
		}

		var digest [32]byte
		copy(digest[:], h.Sum(nil))

		var s Scalar
		s.s.SetBytes(&digest)
		if !s.s.IsZero() {
			return &s, nil
		}
	}
	return nil, fault.New(fault.CodeGroupFailure, "hash-to-scalar exhausted its counter")
}
