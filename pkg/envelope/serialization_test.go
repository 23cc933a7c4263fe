package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
	"github.com/suffix-labs/ctproof/pkg/keys"
)

// sequentialEnvelope fills the canonical form with 0, 1, ..., 130.
func sequentialEnvelope(t *testing.T) *Envelope {
	t.Helper()
	raw := make([]byte, CanonicalSize)
	for i := range raw {
		raw[i] = byte(i)
	}
	var e Envelope
	require.NoError(t, e.UnmarshalBinary(raw))
	return &e
}

// validEnvelope uses real points in every field.
func validEnvelope(t *testing.T) *Envelope {
	t.Helper()
	key, err := keys.PrivateKeyFromBytes([]byte(strings.Repeat("\x01", 32)))
	require.NoError(t, err)
	gens := group.DefaultGenerators()
	return New(key.XOnly(), keys.PublicKeyFromPoint(gens.G), gens.H, gens.H)
}

func jsonBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestCanonicalRoundTrip(t *testing.T) {
	e := sequentialEnvelope(t)
	assert.Equal(t, byte(0), e.Sender[0])
	assert.Equal(t, byte(32), e.Receiver[0])
	assert.Equal(t, byte(65), e.AmountCommitment[0])
	assert.Equal(t, byte(98), e.Proof[0])
	assert.Equal(t, byte(130), e.Proof[32])

	raw, err := e.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, raw, 131)

	var back Envelope
	require.NoError(t, back.UnmarshalBinary(raw))
	assert.Equal(t, *e, back)

	err = back.UnmarshalBinary(raw[:130])
	assert.True(t, errors.Is(err, fault.ErrMalformedEnvelope))
}

func TestWireFormIsIntegerArrays(t *testing.T) {
	e := sequentialEnvelope(t)
	got, err := e.SigningBytes()
	require.NoError(t, err)

	want := `{"sender":` + jsonBytes(e.Sender[:]) +
		`,"receiver":` + jsonBytes(e.Receiver[:]) +
		`,"amount_commitment":` + jsonBytes(e.AmountCommitment[:]) +
		`,"proof":` + jsonBytes(e.Proof[:]) + `}`
	assert.Equal(t, want, string(got))

	hash, err := e.SigHash()
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256([]byte(want)), hash)
}

func TestJSONRoundTrip(t *testing.T) {
	tx := &SignedTransaction{Envelope: *validEnvelope(t)}
	for i := range tx.Signature {
		tx.Signature[i] = byte(255 - i)
	}

	wire, err := Encode(tx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(wire), `[{"sender":[`))

	back, err := Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, *tx, *back)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tx := &SignedTransaction{Envelope: *sequentialEnvelope(t)}
	wire, err := Encode(tx)
	require.NoError(t, err)
	env, err := tx.Envelope.MarshalJSON()
	require.NoError(t, err)
	sig := jsonBytes(tx.Signature[:])

	zeros := func(n int) string { return jsonBytes(make([]byte, n)) }

	tests := []struct {
		name string
		wire string
	}{
		{"empty", ``},
		{"not json", `hello`},
		{"object instead of array", string(env)},
		{"one element", `[` + string(env) + `]`},
		{"three elements", `[` + string(env) + `,` + sig + `,` + sig + `]`},
		{"trailing garbage", string(wire) + `x`},
		{"short signature", `[` + string(env) + `,` + zeros(63) + `]`},
		{"base64 signature", `[` + string(env) + `,"AAAA"]`},
		{"null envelope", `[null,` + sig + `]`},
		{"missing key", `[{"sender":` + zeros(32) + `,"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `},` + sig + `]`},
		{"extra key", `[{"sender":` + zeros(32) + `,"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `,"fee":[1]},` + sig + `]`},
		{"wrong case key", `[{"Sender":` + zeros(32) + `,"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
		{"short sender", `[{"sender":` + zeros(31) + `,"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
		{"byte out of range", `[{"sender":[256` + strings.Repeat(",0", 31) + `],"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
		{"negative byte", `[{"sender":[-1` + strings.Repeat(",0", 31) + `],"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
		{"fractional byte", `[{"sender":[1.5` + strings.Repeat(",0", 31) + `],"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
		{"null field", `[{"sender":null,"receiver":` + zeros(33) + `,"amount_commitment":` + zeros(33) + `,"proof":` + zeros(33) + `},` + sig + `]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.wire))
			require.Error(t, err)
			assert.True(t, errors.Is(err, fault.ErrMalformedEnvelope), "got %v", err)
		})
	}
}

func TestDecodeToleratesWhitespace(t *testing.T) {
	tx := &SignedTransaction{Envelope: *sequentialEnvelope(t)}
	wire, err := Encode(tx)
	require.NoError(t, err)

	spaced := strings.ReplaceAll(string(wire), ",", ", ")
	back, err := Decode([]byte(spaced))
	require.NoError(t, err)

	// The signature hash depends on field values, not on received whitespace.
	h1, err := tx.Envelope.SigHash()
	require.NoError(t, err)
	h2, err := back.Envelope.SigHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestFields(t *testing.T) {
	e := validEnvelope(t)
	f, err := e.Fields()
	require.NoError(t, err)
	assert.True(t, f.AmountCommitment.Equal(group.DefaultGenerators().H))
	assert.True(t, f.Receiver.Point().Equal(group.BasePoint()))
	assert.Equal(t, e.Sender, f.Sender.XOnly())

	bad := *e
	bad.Proof[0] = 0x07
	_, err = bad.Fields()
	assert.True(t, errors.Is(err, fault.ErrMalformedEnvelope))
	assert.True(t, errors.Is(err, fault.ErrBadPoint))

	_, err = sequentialEnvelope(t).Fields()
	assert.True(t, errors.Is(err, fault.ErrMalformedEnvelope))
}

func TestTxID(t *testing.T) {
	e := sequentialEnvelope(t)
	assert.Equal(t, "7fa135e0d6ca82256b9ea6eac93b516c3b6d05e482408ba2eefebf0ee901af52", e.TxIDHex())

	id := e.TxID()
	assert.Equal(t, hex.EncodeToString(id[:]), e.TxIDHex())

	other := *e
	other.Proof[32] ^= 1
	assert.NotEqual(t, e.TxID(), other.TxID())
}
