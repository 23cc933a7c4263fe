// Package config loads ctproof settings.
//
// Sources, lowest to highest precedence:
//   - built-in defaults (SetDefaults)
//   - an optional config file (YAML, TOML or JSON, by extension)
//   - CTPROOF_* environment variables (CTPROOF_NETWORK_DIAL_TIMEOUT, ...)
//   - command-line flags bound by the caller
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/suffix-labs/ctproof/pkg/api"
	"github.com/suffix-labs/ctproof/pkg/group"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "CTPROOF"

// Keys used with viper.
const (
	KeyAmount         = "amount"
	KeyGenerators     = "generators"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyDialTimeout    = "network.dial_timeout"
	KeyIOTimeout      = "network.io_timeout"
	KeyDialAttempts   = "network.dial_attempts"
	KeyMaxMessageSize = "network.max_message_size"
)

// Config is the resolved configuration.
type Config struct {
	Amount     string        `mapstructure:"amount"`
	Generators string        `mapstructure:"generators"`
	Log        LogConfig     `mapstructure:"log"`
	Network    NetworkConfig `mapstructure:"network"`

	amount uint64
	mode   group.GeneratorMode
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NetworkConfig configures the transport.
type NetworkConfig struct {
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	IOTimeout      time.Duration `mapstructure:"io_timeout"`
	DialAttempts   uint          `mapstructure:"dial_attempts"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults installs the built-in defaults.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAmount, fmt.Sprint(api.DefaultAmount))
	v.SetDefault(KeyGenerators, group.GeneratorsHashToCurve.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDialTimeout, 5*time.Second)
	v.SetDefault(KeyIOTimeout, 30*time.Second)
	v.SetDefault(KeyDialAttempts, 10)
	v.SetDefault(KeyMaxMessageSize, 64*1024)
}

// Load reads the optional file at path into v and resolves the result.
// An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field and caches the parsed amount and generator mode.
func (c *Config) Validate() error {
	amount, err := api.ParseAmount(c.Amount)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", KeyAmount, err)
	}
	mode, err := group.ParseGeneratorMode(c.Generators)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", KeyGenerators, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid %s %q (want console or json)", KeyLogFormat, c.Log.Format)
	}
	if c.Network.DialTimeout <= 0 || c.Network.IOTimeout <= 0 {
		return fmt.Errorf("network timeouts must be positive")
	}
	if c.Network.DialAttempts == 0 {
		return fmt.Errorf("invalid %s: need at least one attempt", KeyDialAttempts)
	}
	if c.Network.MaxMessageSize < 1024 {
		return fmt.Errorf("invalid %s: %d is below 1024", KeyMaxMessageSize, c.Network.MaxMessageSize)
	}

	c.amount = amount
	c.mode = mode
	return nil
}

// AmountValue returns the parsed amount. Valid after Validate.
func (c *Config) AmountValue() uint64 {
	return c.amount
}

// GeneratorMode returns the parsed generator mode. Valid after Validate.
func (c *Config) GeneratorMode() group.GeneratorMode {
	return c.mode
}
