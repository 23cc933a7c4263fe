package group

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/suffix-labs/ctproof/pkg/fault"
)

// hashToCurveDomain prefixes every try-and-increment candidate for H.
const hashToCurveDomain = "ctproof/pedersen/H"

// GeneratorMode selects how the second Pedersen generator H is derived.
type GeneratorMode int

const (
	// GeneratorsHashToCurve derives H by try-and-increment hashing onto the
	// curve. Nobody knows log_G(H).
	GeneratorsHashToCurve GeneratorMode = iota

	// GeneratorsLegacy sets H = (SHA-256(G) mod n) * G. Anyone can compute
	// log_G(H), so commitments under this mode are not binding. It exists
	// only to interoperate with peers that use this construction.
	GeneratorsLegacy
)

// String returns the configuration name of the mode.
func (m GeneratorMode) String() string {
	switch m {
	case GeneratorsHashToCurve:
		return "hash-to-curve"
	case GeneratorsLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("GeneratorMode(%d)", int(m))
	}
}

// ParseGeneratorMode parses a configuration name produced by String.
func ParseGeneratorMode(s string) (GeneratorMode, error) {
	switch s {
	case "hash-to-curve", "":
		return GeneratorsHashToCurve, nil
	case "legacy":
		return GeneratorsLegacy, nil
	default:
		return 0, fmt.Errorf("unknown generator mode %q (want hash-to-curve or legacy)", s)
	}
}

// Generators holds the two Pedersen generators. Both are public constants.
type Generators struct {
	G    *Point
	H    *Point
	Mode GeneratorMode
}

var (
	defaultOnce sync.Once
	defaultGens *Generators
)

// DefaultGenerators returns the process-wide hash-to-curve generators.
func DefaultGenerators() *Generators {
	defaultOnce.Do(func() {
		gens, err := NewGenerators(GeneratorsHashToCurve)
		if err != nil {
			// H derivation depends only on constants.
			panic(err)
		}
		defaultGens = gens
	})
	return defaultGens
}

// NewGenerators derives G and H for the given mode. The result is identical
// across runs.
func NewGenerators(mode GeneratorMode) (*Generators, error) {
	g := BasePoint()

	var (
		h   *Point
		err error
	)
	switch mode {
	case GeneratorsHashToCurve:
		h, err = hashToCurve(g)
	case GeneratorsLegacy:
		h, err = legacyH(g)
	default:
		return nil, fmt.Errorf("unknown generator mode %d", int(mode))
	}
	if err != nil {
		return nil, err
	}
	return &Generators{G: g, H: h, Mode: mode}, nil
}

// hashToCurve finds the first counter for which
// SHA-256(domain || G || be32(counter)) is the x-coordinate of a curve point,
// and returns that point with even Y.
func hashToCurve(g *Point) (*Point, error) {
	gc := g.Compressed()

	var ctr [4]byte
	for i := uint32(0); i < 1<<16; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)

		h := sha256.New()
		h.Write([]byte(hashToCurveDomain))
		h.Write(gc[:])
		h.Write(ctr[:])

		var digest [32]byte
		copy(digest[:], h.Sum(nil))

		var x, y secp256k1.FieldVal
		if overflow := x.SetBytes(&digest); overflow != 0 {
			continue
		}
		if !secp256k1.DecompressY(&x, false, &y) {
			continue
		}
		return PointFromPublicKey(secp256k1.NewPublicKey(&x, &y)), nil
	}
	return nil, fault.New(fault.CodeGroupFailure, "hash-to-curve found no point for H")
}

func legacyH(g *Point) (*Point, error) {
	gc := g.Compressed()
	digest := sha256.Sum256(gc[:])

	var h Scalar
	h.s.SetBytes(&digest)
	return g.Mul(&h)
}
