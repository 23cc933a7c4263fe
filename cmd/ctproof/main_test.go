package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ctproof/pkg/keys"
)

// lockedBuffer is a bytes.Buffer safe for the concurrent writers in demo.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut lockedBuffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDemoValid(t *testing.T) {
	stdout, _, err := run(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Sent transaction ")
	assert.Contains(t, stdout, "Proof valid: true\n")
	assert.Contains(t, stdout, "Signature valid: true\n")
	assert.True(t, strings.HasSuffix(stdout, "VALID\n"))
	assert.NotContains(t, stdout, "INVALID")
}

func TestDemoOptions(t *testing.T) {
	stdout, stderr, err := run(t, "demo", "--amount", "0", "--generators", "legacy", "--dump", "--log-format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stdout, "VALID\n"))
	assert.NotContains(t, stdout, "INVALID")
	assert.Contains(t, stderr, `"amount_commitment"`)
}

func TestDemoRejectsBadAmount(t *testing.T) {
	_, _, err := run(t, "demo", "--amount=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_AMOUNT")
}

func TestProverRejectsBadReceiver(t *testing.T) {
	_, _, err := run(t, "prover", "--receiver", "not-a-key", "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--receiver")
}

func TestArgumentShape(t *testing.T) {
	for _, args := range [][]string{
		{"prover"},
		{"verifier"},
		{"verifier", "a:1", "b:2"},
		{"keygen", "extra"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			stdout, stderr, err := run(t, args...)
			require.Error(t, err)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestKeygen(t *testing.T) {
	stdout, _, err := run(t, "keygen")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)

	encoded := strings.TrimPrefix(lines[0], "Public key: ")
	pub, err := keys.ParsePublicKeyBase58(encoded)
	require.NoError(t, err)

	xonly := pub.XOnly()
	assert.Contains(t, lines[1], hex.EncodeToString(xonly[:]))
	assert.Contains(t, lines[2], "ctproof:"+encoded)
}

func TestProverRequestConflicts(t *testing.T) {
	stdout, _, err := run(t, "keygen")
	require.NoError(t, err)
	key := strings.TrimPrefix(strings.Split(stdout, "\n")[0], "Public key: ")

	_, _, err = run(t, "prover", "--request", "ctproof:"+key+"?amount=5", "--amount", "6", "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")

	_, _, err = run(t, "prover", "--request", "ctproof:"+key, "--receiver", key, "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, _, err = run(t, "prover", "--request", "bitcoin:"+key, "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--request")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, Version)
	assert.Contains(t, stdout, "BulletproofChallengeDomainSep")
}
