// Package envelope defines the signed confidential transaction and its
// encodings.
//
// An Envelope X is the ordered tuple (sender, receiver, amount_commitment,
// proof). It has two encodings:
//
//   - Canonical form: fixed-field concatenation, 131 bytes
//     sender (32) || receiver (33) || amount_commitment (33) || proof (33)
//   - Wire form: a JSON object with exactly those four keys, each value a
//     JSON array of integers 0-255
//
// The Schnorr signature covers SHA-256 of the wire form as produced by
// SigningBytes, not the canonical form. A verifier re-serializes the parsed
// envelope before hashing, so the signature binds the field values rather
// than incidental whitespace. The canonical form feeds TxID only.
//
// A signed transaction travels as the two-element JSON array [X, signature].
package envelope

import (
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
	"github.com/suffix-labs/ctproof/pkg/keys"
)

// Field sizes of the canonical form.
const (
	SenderSize    = 32
	PointSize     = group.CompressedSize
	CanonicalSize = SenderSize + 3*PointSize
	SignatureSize = keys.SignatureSize
)

// Envelope is the signed part of a confidential transaction.
type Envelope struct {
	Sender           [SenderSize]byte // BIP-340 x-only sender key
	Receiver         [PointSize]byte  // Compressed receiver key
	AmountCommitment [PointSize]byte  // Compressed Pedersen commitment C
	Proof            [PointSize]byte  // Compressed response R
}

// SignedTransaction pairs an envelope with its signature.
type SignedTransaction struct {
	Envelope  Envelope
	Signature [SignatureSize]byte
}

// Fields is an envelope with every field decoded.
type Fields struct {
	Sender           *keys.PublicKey
	Receiver         *keys.PublicKey
	AmountCommitment *group.Point
	Proof            *group.Point
}

// New assembles an envelope from decoded values.
func New(sender [SenderSize]byte, receiver *keys.PublicKey, commitment, response *group.Point) *Envelope {
	return &Envelope{
		Sender:           sender,
		Receiver:         receiver.SerializeCompressed(),
		AmountCommitment: commitment.Compressed(),
		Proof:            response.Compressed(),
	}
}

// Fields decodes every field. The first failing field is reported as
// MALFORMED_ENVELOPE wrapping the underlying BAD_POINT.
func (e *Envelope) Fields() (*Fields, error) {
	sender, err := keys.ParseXOnlyPublicKey(e.Sender[:])
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "sender")
	}
	receiver, err := keys.ParsePublicKey(e.Receiver[:])
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "receiver")
	}
	commitment, err := group.ParsePoint(e.AmountCommitment[:])
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "amount_commitment")
	}
	proof, err := group.ParsePoint(e.Proof[:])
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "proof")
	}
	return &Fields{
		Sender:           sender,
		Receiver:         receiver,
		AmountCommitment: commitment,
		Proof:            proof,
	}, nil
}
