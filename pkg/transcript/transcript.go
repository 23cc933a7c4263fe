// Package transcript builds the Fiat-Shamir transcript of a proof and derives
// its challenge.
//
// The transcript is the concatenation of the compressed encodings of the
// public inputs, in order, with no length framing. That is unambiguous only
// because every element is a fixed-size 33-byte point; anything variable
// length added later needs explicit framing first.
package transcript

import "github.com/suffix-labs/ctproof/pkg/group"

// ChallengeDomain separates challenge hashes from every other SHA-256 use.
const ChallengeDomain = "BulletproofChallengeDomainSep"

// Build concatenates the compressed encodings of points. An empty input
// yields an empty transcript.
func Build(points ...*group.Point) []byte {
	out := make([]byte, 0, len(points)*group.CompressedSize)
	for _, p := range points {
		c := p.Compressed()
		out = append(out, c[:]...)
	}
	return out
}

// Challenge derives e = SHA-256(ChallengeDomain || t) mod n, rehashing with a
// counter suffix in the negligible case that e is zero.
func Challenge(t []byte) (*group.Scalar, error) {
	return group.HashToScalar([]byte(ChallengeDomain), t)
}
