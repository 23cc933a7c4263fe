package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ctproof/pkg/group"
)

func TestDefaults(t *testing.T) {
	c, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, uint64(42), c.AmountValue())
	assert.Equal(t, group.GeneratorsHashToCurve, c.GeneratorMode())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
	assert.Equal(t, 5*time.Second, c.Network.DialTimeout)
	assert.Equal(t, 30*time.Second, c.Network.IOTimeout)
	assert.Equal(t, uint(10), c.Network.DialAttempts)
	assert.Equal(t, int64(64*1024), c.Network.MaxMessageSize)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CTPROOF_AMOUNT", "1000")
	t.Setenv("CTPROOF_GENERATORS", "legacy")
	t.Setenv("CTPROOF_NETWORK_DIAL_TIMEOUT", "250ms")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), c.AmountValue())
	assert.Equal(t, group.GeneratorsLegacy, c.GeneratorMode())
	assert.Equal(t, 250*time.Millisecond, c.Network.DialTimeout)
}

func TestFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctproof.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
amount: "7"
log:
  level: debug
  format: json
network:
  io_timeout: 2s
  dial_attempts: 3
`), 0o600))

	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), c.AmountValue())
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 2*time.Second, c.Network.IOTimeout)
	assert.Equal(t, uint(3), c.Network.DialAttempts)
	assert.Equal(t, 5*time.Second, c.Network.DialTimeout, "unset keys keep defaults")
}

func TestMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"negative amount", KeyAmount, "-1"},
		{"overflowing amount", KeyAmount, "18446744073709551616"},
		{"unknown generators", KeyGenerators, "nums"},
		{"unknown log format", KeyLogFormat, "xml"},
		{"zero dial timeout", KeyDialTimeout, "0s"},
		{"zero attempts", KeyDialAttempts, 0},
		{"tiny message limit", KeyMaxMessageSize, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.val)
			_, err := Load(v, "")
			assert.Error(t, err)
		})
	}
}
