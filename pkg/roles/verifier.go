package roles

import (
	"bytes"

	"github.com/rs/zerolog"
	"github.com/suffix-labs/ctproof/pkg/envelope"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/keys"
	"github.com/suffix-labs/ctproof/pkg/transcript"
)

// Verifier checks signed confidential transactions.
//
// The Verifier role:
//   - Parses every envelope field
//   - Rebuilds the transcript from the commitment and re-derives e
//   - Evaluates the range predicate: response == commitment
//   - Verifies the Schnorr signature under the x-only sender key
//
// The range predicate matches the simplified single-commitment response.
// It establishes that the commitment is a well-formed point, not that the
// committed amount lies within a bit-length bound.
type Verifier struct {
	log zerolog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithVerifierLogger attaches a logger.
func WithVerifierLogger(log zerolog.Logger) VerifierOption {
	return func(v *Verifier) { v.log = log }
}

// NewVerifier creates a Verifier.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verdict is the outcome of verifying one transaction.
//
// Err records the internal reason for a reject (MALFORMED_ENVELOPE,
// BAD_PROOF or BAD_SIGNATURE) for logs; callers facing the wire should use
// Valid only.
type Verdict struct {
	ProofValid     bool
	SignatureValid bool
	Err            error
}

// Valid reports whether both predicates accepted.
func (v Verdict) Valid() bool {
	return v.ProofValid && v.SignatureValid
}

// Verify reports whether tx is valid.
func (v *Verifier) Verify(tx *envelope.SignedTransaction) bool {
	return v.Check(tx).Valid()
}

// CheckBytes decodes wire bytes and checks the transaction. Decoding
// failures reject both predicates with MALFORMED_ENVELOPE.
func (v *Verifier) CheckBytes(wire []byte) Verdict {
	tx, err := envelope.Decode(wire)
	if err != nil {
		v.log.Debug().Err(err).Msg("verifier: rejected undecodable transaction")
		return Verdict{Err: err}
	}
	return v.Check(tx)
}

// Check evaluates both predicates. Both are always computed so the
// result does not depend on which one fails first.
func (v *Verifier) Check(tx *envelope.SignedTransaction) Verdict {
	x := &tx.Envelope

	fields, parseErr := x.Fields()

	proofValid := false
	if parseErr == nil {
		// Re-derive e from the transcript. The simplified predicate does not
		// use it.
		if _, err := transcript.Challenge(transcript.Build(fields.AmountCommitment)); err != nil {
			parseErr = fault.Wrap(fault.CodeMalformedEnvelope, err, "challenge")
		} else {
			proofValid = bytes.Equal(x.Proof[:], x.AmountCommitment[:])
		}
	}

	signatureValid := false
	if sender, err := keys.ParseXOnlyPublicKey(x.Sender[:]); err == nil {
		if sigHash, err := x.SigHash(); err == nil {
			signatureValid = keys.VerifySchnorr(sender, sigHash, tx.Signature[:])
		}
	}

	verdict := Verdict{ProofValid: proofValid, SignatureValid: signatureValid}
	switch {
	case parseErr != nil:
		verdict.Err = parseErr
		verdict.SignatureValid = false
	case !proofValid:
		verdict.Err = fault.New(fault.CodeBadProof, "response does not match the amount commitment")
	case !signatureValid:
		verdict.Err = fault.New(fault.CodeBadSignature, "schnorr signature does not verify under the sender key")
	}

	v.log.Debug().
		Str("txid", x.TxIDHex()).
		Bool("proof_valid", verdict.ProofValid).
		Bool("signature_valid", verdict.SignatureValid).
		Str("reason", fault.CodeOf(verdict.Err)).
		Msg("verifier: checked confidential transaction")

	return verdict
}
