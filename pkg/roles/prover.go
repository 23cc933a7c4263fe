// Package roles implements the two protocol roles, Prover and Verifier.
//
// Both roles are synchronous and hold no mutable state between calls: each
// Prove or Check works on caller-owned values and returns owned values, so a
// single instance may serve concurrent callers as long as its randomness
// source is safe for concurrent reads (crypto/rand.Reader is).
package roles

import (
	"crypto/rand"
	"io"

	"github.com/rs/zerolog"
	"github.com/suffix-labs/ctproof/pkg/envelope"
	"github.com/suffix-labs/ctproof/pkg/group"
	"github.com/suffix-labs/ctproof/pkg/innerproduct"
	"github.com/suffix-labs/ctproof/pkg/keys"
	"github.com/suffix-labs/ctproof/pkg/pedersen"
	"github.com/suffix-labs/ctproof/pkg/transcript"
)

// Prover builds signed confidential transactions.
//
// The Prover role:
//   - Commits to the amount with a fresh blinding (C = v*G + r*H)
//   - Binds the commitment into the Fiat-Shamir transcript and derives e
//   - Computes the simplified inner-product response R over [C]
//   - Assembles the envelope and signs its wire form with BIP-340 Schnorr
type Prover struct {
	gens *group.Generators
	rand io.Reader
	log  zerolog.Logger
}

// Witness is the prover's private view of a transaction. It has no
// serialization and must stay with the prover.
type Witness struct {
	Amount    uint64
	Blinding  *group.Scalar
	Challenge *group.Scalar
}

// ProverOption configures a Prover.
type ProverOption func(*Prover)

// WithGenerators overrides the Pedersen generators.
func WithGenerators(gens *group.Generators) ProverOption {
	return func(p *Prover) { p.gens = gens }
}

// WithRand overrides the randomness source used for blinding and signing.
func WithRand(r io.Reader) ProverOption {
	return func(p *Prover) { p.rand = r }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) ProverOption {
	return func(p *Prover) { p.log = log }
}

// NewProver creates a Prover using the default generators and crypto/rand.
func NewProver(opts ...ProverOption) *Prover {
	p := &Prover{
		gens: group.DefaultGenerators(),
		rand: rand.Reader,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prove creates a signed transaction sending amount from sender to receiver.
//
// Any error aborts the transaction; nothing partial is returned. The
// blinding is drawn before the signing randomness, so a deterministic
// reader reproduces both.
func (p *Prover) Prove(sender *keys.PrivateKey, receiver *keys.PublicKey, amount uint64) (*envelope.SignedTransaction, *Witness, error) {
	senderXOnly := sender.XOnly()

	c, r, err := pedersen.Commit(p.gens, amount, p.rand)
	if err != nil {
		return nil, nil, err
	}

	e, err := transcript.Challenge(transcript.Build(c))
	if err != nil {
		return nil, nil, err
	}

	// e binds the transcript; the simplified response does not fold it in.
	response, err := innerproduct.Aggregate([]*group.Point{c})
	if err != nil {
		return nil, nil, err
	}

	x := envelope.New(senderXOnly, receiver, c, response)
	sigHash, err := x.SigHash()
	if err != nil {
		return nil, nil, err
	}
	sig, err := sender.SignSchnorr(sigHash, p.rand)
	if err != nil {
		return nil, nil, err
	}

	p.log.Debug().
		Str("txid", x.TxIDHex()).
		Hex("sender", senderXOnly[:]).
		Str("generators", p.gens.Mode.String()).
		Msg("prover: signed confidential transaction")

	tx := &envelope.SignedTransaction{Envelope: *x, Signature: sig}
	return tx, &Witness{Amount: amount, Blinding: r, Challenge: e}, nil
}
