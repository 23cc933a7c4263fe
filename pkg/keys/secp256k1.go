// Package keys implements secp256k1 key pairs and BIP-340 Schnorr signatures
// for ctproof senders and receivers.
//
// Key formats:
//   - Private keys: raw 32-byte scalar in [1, n-1]
//   - Public keys: compressed 33-byte format (0x02/0x03 prefix + x-coordinate)
//   - Sender keys: 32-byte x-only format with implicit even Y (BIP-340)
//   - Signatures: 64-byte BIP-340 encoding (R.x || s)
//   - Display: base58check of the compressed key
//
// All keys are ephemeral: this package has no persistent key storage.
package keys

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
)

const (
	// SignatureSize is the length of a BIP-340 signature.
	SignatureSize = 64

	// base58Version tags base58check-encoded ctproof public keys.
	base58Version = 0x3c
)

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GeneratePrivateKey draws an ephemeral private key from rand.
func GeneratePrivateKey(rand io.Reader) (*PrivateKey, error) {
	s, err := group.RandomScalar(rand)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(s.ModNScalar())}, nil
}

// PrivateKeyFromBytes creates a private key from raw bytes, rejecting 0 and
// values >= n instead of reducing them.
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	s, err := group.ScalarFromBytes(keyBytes)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(s.ModNScalar())}, nil
}

// PublicKey derives the public key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// XOnly returns the BIP-340 x-only public key. When the full public key has
// odd Y the signer implicitly uses the negated secret, so the x-coordinate
// alone identifies the key.
func (pk *PrivateKey) XOnly() [32]byte {
	var out [32]byte
	copy(out[:], schnorr.SerializePubKey(pk.key.PubKey()))
	return out
}

// Bytes returns the raw 32-byte private key.
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// SignSchnorr creates a BIP-340 signature over a 32-byte message hash.
// Auxiliary randomness for the nonce is drawn from aux.
func (pk *PrivateKey) SignSchnorr(hash [32]byte, aux io.Reader) ([SignatureSize]byte, error) {
	var out [SignatureSize]byte

	var auxData [32]byte
	if _, err := io.ReadFull(aux, auxData[:]); err != nil {
		return out, fault.Wrap(fault.CodeRngFailure, err, "failed to read signing randomness")
	}

	sig, err := schnorr.Sign(pk.key, hash[:], schnorr.CustomNonce(auxData))
	if err != nil {
		return out, fault.Wrap(fault.CodeSignFailure, err, "schnorr signing failed")
	}
	copy(out[:], sig.Serialize())
	return out, nil
}

// ParsePublicKey parses a compressed public key.
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	p, err := group.ParsePoint(pubKeyBytes)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: p.PublicKey()}, nil
}

// ParseXOnlyPublicKey parses a 32-byte BIP-340 public key.
func ParseXOnlyPublicKey(xonly []byte) (*PublicKey, error) {
	if len(xonly) != 32 {
		return nil, fault.New(fault.CodeBadPoint, "x-only public key must be 32 bytes, got %d", len(xonly))
	}
	pub, err := schnorr.ParsePubKey(xonly)
	if err != nil {
		return nil, fault.Wrap(fault.CodeBadPoint, err, "failed to parse x-only public key")
	}
	return &PublicKey{key: pub}, nil
}

// PublicKeyFromPoint wraps a group element as a public key.
func PublicKeyFromPoint(p *group.Point) *PublicKey {
	return &PublicKey{key: p.PublicKey()}
}

// Point returns the key as a group element.
func (pub *PublicKey) Point() *group.Point {
	return group.PointFromPublicKey(pub.key)
}

// SerializeCompressed returns the 33-byte compressed public key.
func (pub *PublicKey) SerializeCompressed() [33]byte {
	var result [33]byte
	copy(result[:], pub.key.SerializeCompressed())
	return result
}

// XOnly returns the 32-byte x-coordinate.
func (pub *PublicKey) XOnly() [32]byte {
	var out [32]byte
	copy(out[:], schnorr.SerializePubKey(pub.key))
	return out
}

// Base58 returns the base58check encoding of the compressed key.
func (pub *PublicKey) Base58() string {
	c := pub.SerializeCompressed()
	return base58.CheckEncode(c[:], base58Version)
}

// ParsePublicKeyBase58 parses a key produced by Base58.
func ParsePublicKeyBase58(s string) (*PublicKey, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, fault.Wrap(fault.CodeBadPoint, err, "invalid base58 public key")
	}
	if version != base58Version {
		return nil, fault.New(fault.CodeBadPoint, "unexpected base58 version byte 0x%02x", version)
	}
	return ParsePublicKey(payload)
}

// VerifySchnorr verifies a BIP-340 signature. Malformed signatures verify false.
func VerifySchnorr(pubkey *PublicKey, hash [32]byte, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash[:], pubkey.key)
}

// String returns the base58 display form.
func (pub *PublicKey) String() string {
	return pub.Base58()
}

// GoString keeps private key material out of %#v output.
func (pk *PrivateKey) GoString() string {
	return fmt.Sprintf("keys.PrivateKey{xonly: %x}", pk.XOnly())
}
