// Package api provides the high-level public API for ctproof.
//
// This is the main entry point for applications embedding the protocol. It
// works on wire bytes so callers never handle envelopes directly:
//
//  1. ProveTransaction - Commits, proves and signs; returns wire bytes
//  2. VerifyTransaction - Decodes wire bytes and checks both predicates
//  3. ParseAmount - Parses a user-supplied amount string
//  4. NewEphemeralKeys - Generates a throwaway sender/receiver pair
package api

import (
	"crypto/rand"
	"strconv"
	"strings"

	"github.com/suffix-labs/ctproof/pkg/envelope"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/keys"
	"github.com/suffix-labs/ctproof/pkg/roles"
)

// DefaultAmount is the amount sent when none is configured.
const DefaultAmount uint64 = 42

// Result is a proved transaction ready to send.
type Result struct {
	Wire []byte // JSON wire form [X, signature]
	TxID string // Hex transaction id, for logs
}

// ProveTransaction creates a signed confidential transaction and returns its
// wire form. The blinding never leaves this call.
func ProveTransaction(sender *keys.PrivateKey, receiver *keys.PublicKey, amount uint64, opts ...roles.ProverOption) (*Result, error) {
	tx, _, err := roles.NewProver(opts...).Prove(sender, receiver, amount)
	if err != nil {
		return nil, err
	}

	wire, err := envelope.Encode(tx)
	if err != nil {
		return nil, err
	}
	return &Result{Wire: wire, TxID: tx.Envelope.TxIDHex()}, nil
}

// VerifyTransaction decodes wire bytes and checks the transaction.
func VerifyTransaction(wire []byte, opts ...roles.VerifierOption) roles.Verdict {
	return roles.NewVerifier(opts...).CheckBytes(wire)
}

// ParseAmount parses a decimal u64 amount. Signs, fractions, and values
// above 2^64-1 are BAD_AMOUNT.
func ParseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fault.Wrap(fault.CodeBadAmount, err, "amount %q is not representable", s)
	}
	return v, nil
}

// EphemeralKeys is a freshly generated sender and receiver.
type EphemeralKeys struct {
	Sender   *keys.PrivateKey
	Receiver *keys.PrivateKey
}

// NewEphemeralKeys generates a sender and a receiver key from crypto/rand.
func NewEphemeralKeys() (*EphemeralKeys, error) {
	sender, err := keys.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	receiver, err := keys.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &EphemeralKeys{Sender: sender, Receiver: receiver}, nil
}
