package request

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/keys"
)

func receiverKey(t *testing.T) *keys.PublicKey {
	t.Helper()
	sk, err := keys.PrivateKeyFromBytes(bytes.Repeat([]byte{0x07}, 32))
	require.NoError(t, err)
	return sk.PublicKey()
}

func TestParseSingle(t *testing.T) {
	pub := receiverKey(t)

	req, err := Parse("ctproof:" + pub.Base58() + "?amount=42&label=coffee+shop&message=thanks")
	require.NoError(t, err)

	assert.Equal(t, pub.SerializeCompressed(), req.Receiver.SerializeCompressed())
	require.NotNil(t, req.Amount)
	assert.Equal(t, uint64(42), *req.Amount)
	require.NotNil(t, req.Label)
	assert.Equal(t, "coffee shop", *req.Label)
	require.NotNil(t, req.Message)
	assert.Equal(t, "thanks", *req.Message)
}

func TestParseReceiverOnly(t *testing.T) {
	pub := receiverKey(t)

	req, err := Parse("CTProof:" + pub.Base58())
	require.NoError(t, err)
	assert.Nil(t, req.Amount)
	assert.Nil(t, req.Label)
	assert.Nil(t, req.Message)
}

func TestParseIgnoresOptionalUnknownParams(t *testing.T) {
	req, err := Parse("ctproof:" + receiverKey(t).Base58() + "?amount=1&note=x")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), *req.Amount)
}

func TestParseErrors(t *testing.T) {
	key := receiverKey(t).Base58()

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"wrong scheme", "zcash:" + key, "must start with"},
		{"no scheme", key, "must start with"},
		{"no receiver", "ctproof:?amount=1", "no receiver"},
		{"bad receiver", "ctproof:notakey", "invalid receiver"},
		{"negative amount", "ctproof:" + key + "?amount=-1", "invalid amount"},
		{"fractional amount", "ctproof:" + key + "?amount=1.5", "invalid amount"},
		{"overflowing amount", "ctproof:" + key + "?amount=18446744073709551616", "invalid amount"},
		{"duplicate amount", "ctproof:" + key + "?amount=1&amount=2", "given 2 times"},
		{"indexed recipient", "ctproof:" + key + "?address.1=" + key, "multiple recipients"},
		{"required param", "ctproof:" + key + "?req-expiry=10", "unsupported required"},
		{"bad escape", "ctproof:" + key + "?label=%zz", "failed to parse query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.uri)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAmountError(t *testing.T) {
	_, err := Parse("ctproof:" + receiverKey(t).Base58() + "?amount=abc")
	assert.True(t, errors.Is(err, fault.ErrBadAmount))
}

func TestEncodeRoundTrip(t *testing.T) {
	amount := uint64(18446744073709551615)
	label := "rent & bills"
	req := &PaymentRequest{Receiver: receiverKey(t), Amount: &amount, Label: &label}

	uri := req.Encode()
	assert.True(t, strings.HasPrefix(uri, "ctproof:"+req.Receiver.Base58()+"?"))

	back, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, amount, *back.Amount)
	assert.Equal(t, label, *back.Label)
	assert.Nil(t, back.Message)
}

func TestEncodeReceiverOnly(t *testing.T) {
	req := &PaymentRequest{Receiver: receiverKey(t)}
	assert.Equal(t, "ctproof:"+req.Receiver.Base58(), req.Encode())
}
