package envelope

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/suffix-labs/ctproof/pkg/fault"
)

// JSON keys of the wire envelope, in serialization order.
const (
	keySender           = "sender"
	keyReceiver         = "receiver"
	keyAmountCommitment = "amount_commitment"
	keyProof            = "proof"
)

// MarshalBinary returns the canonical 131-byte form.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, CanonicalSize)
	out = append(out, e.Sender[:]...)
	out = append(out, e.Receiver[:]...)
	out = append(out, e.AmountCommitment[:]...)
	out = append(out, e.Proof[:]...)
	return out, nil
}

// UnmarshalBinary parses the canonical form. Only the length is checked;
// use Fields to validate the encodings.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) != CanonicalSize {
		return fault.New(fault.CodeMalformedEnvelope, "canonical envelope must be %d bytes, got %d", CanonicalSize, len(data))
	}
	offset := 0
	offset += copy(e.Sender[:], data[offset:])
	offset += copy(e.Receiver[:], data[offset:])
	offset += copy(e.AmountCommitment[:], data[offset:])
	copy(e.Proof[:], data[offset:])
	return nil
}

// wireEnvelope fixes the JSON key order.
type wireEnvelope struct {
	Sender           byteList `json:"sender"`
	Receiver         byteList `json:"receiver"`
	AmountCommitment byteList `json:"amount_commitment"`
	Proof            byteList `json:"proof"`
}

// MarshalJSON returns the wire form.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEnvelope{
		Sender:           e.Sender[:],
		Receiver:         e.Receiver[:],
		AmountCommitment: e.AmountCommitment[:],
		Proof:            e.Proof[:],
	})
}

// UnmarshalJSON parses the wire form. It requires exactly the four keys
// (matched case-sensitively) with byte arrays of the right length.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fault.Wrap(fault.CodeMalformedEnvelope, err, "envelope is not a JSON object")
	}
	if obj == nil {
		return fault.New(fault.CodeMalformedEnvelope, "envelope is null")
	}

	fields := []struct {
		key string
		dst []byte
	}{
		{keySender, e.Sender[:]},
		{keyReceiver, e.Receiver[:]},
		{keyAmountCommitment, e.AmountCommitment[:]},
		{keyProof, e.Proof[:]},
	}
	if len(obj) != len(fields) {
		return fault.New(fault.CodeMalformedEnvelope, "envelope has %d keys, want %d", len(obj), len(fields))
	}

	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			return fault.New(fault.CodeMalformedEnvelope, "envelope is missing %q", f.key)
		}
		if err := decodeFixed(raw, f.dst); err != nil {
			return fault.Wrap(fault.CodeMalformedEnvelope, err, "field %q", f.key)
		}
	}
	return nil
}

// SigningBytes returns the exact bytes the Schnorr signature commits to.
func (e *Envelope) SigningBytes() ([]byte, error) {
	return e.MarshalJSON()
}

// SigHash returns SHA-256 of SigningBytes.
func (e *Envelope) SigHash() ([32]byte, error) {
	b, err := e.SigningBytes()
	if err != nil {
		return [32]byte{}, fault.Wrap(fault.CodeMalformedEnvelope, err, "failed to serialize envelope")
	}
	return sha256.Sum256(b), nil
}

// MarshalJSON returns the wire form [X, signature].
func (tx SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{tx.Envelope, byteList(tx.Signature[:])})
}

// UnmarshalJSON parses [X, signature].
func (tx *SignedTransaction) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fault.Wrap(fault.CodeMalformedEnvelope, err, "signed transaction is not a JSON array")
	}
	if len(parts) != 2 {
		return fault.New(fault.CodeMalformedEnvelope, "signed transaction has %d elements, want 2", len(parts))
	}
	if err := tx.Envelope.UnmarshalJSON(parts[0]); err != nil {
		return err
	}
	if err := decodeFixed(parts[1], tx.Signature[:]); err != nil {
		return fault.Wrap(fault.CodeMalformedEnvelope, err, "signature")
	}
	return nil
}

// Encode returns the wire bytes of tx.
func Encode(tx *SignedTransaction) ([]byte, error) {
	b, err := json.Marshal(tx)
	if err != nil {
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "failed to encode signed transaction")
	}
	return b, nil
}

// Decode parses wire bytes. Every failure is MALFORMED_ENVELOPE.
func Decode(data []byte) (*SignedTransaction, error) {
	var tx SignedTransaction
	if err := json.Unmarshal(data, &tx); err != nil {
		if fault.CodeOf(err) == fault.CodeMalformedEnvelope {
			return nil, err
		}
		return nil, fault.Wrap(fault.CodeMalformedEnvelope, err, "failed to decode signed transaction")
	}
	return &tx, nil
}

// byteList encodes bytes as a JSON array of integers instead of base64.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 2+4*len(b))
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

// decodeFixed decodes a JSON integer array into dst, which fixes the length.
func decodeFixed(raw json.RawMessage, dst []byte) error {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return fmt.Errorf("not an array of integers: %w", err)
	}
	if ints == nil {
		return fmt.Errorf("null byte array")
	}
	if len(ints) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(ints))
	}
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte %d out of range: %d", i, v)
		}
		dst[i] = byte(v)
	}
	return nil
}
