// Package pedersen implements Pedersen commitments C = v*G + r*H over secp256k1.
//
// The commitment is hiding in r (a uniform blinding scalar) and binding under
// the discrete-log assumption, provided nobody knows log_G(H). Use
// group.DefaultGenerators unless a peer requires the legacy H.
//
// The blinding scalar returned by Commit belongs to the prover and is never
// serialized by this module.
package pedersen

import (
	"io"

	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
)

// Commit commits to value with a fresh blinding drawn from rand.
func Commit(gens *group.Generators, value uint64, rand io.Reader) (*group.Point, *group.Scalar, error) {
	r, err := group.RandomScalar(rand)
	if err != nil {
		return nil, nil, err
	}

	c, err := CommitWithBlinding(gens, value, r)
	if err != nil {
		return nil, nil, err
	}
	return c, r, nil
}

// CommitWithBlinding computes v*G + r*H. Identical (value, r) always give a
// bitwise identical commitment.
func CommitWithBlinding(gens *group.Generators, value uint64, r *group.Scalar) (*group.Point, error) {
	if r.IsZero() {
		return nil, fault.New(fault.CodeBadScalar, "blinding scalar is zero")
	}

	sv := group.ScalarFromUint64(value)
	c, err := group.LinearCombination(
		[]*group.Scalar{sv, r},
		[]*group.Point{gens.G, gens.H},
	)
	if err != nil {
		return nil, fault.Wrap(fault.CodeGroupFailure, err, "commitment to %d", value)
	}
	return c, nil
}

// Open reports whether c is a commitment to value under blinding r.
func Open(gens *group.Generators, c *group.Point, value uint64, r *group.Scalar) bool {
	want, err := CommitWithBlinding(gens, value, r)
	if err != nil {
		return false
	}
	return want.Equal(c)
}
