package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/suffix-labs/ctproof/pkg/config"
	"github.com/suffix-labs/ctproof/pkg/group"
	"github.com/suffix-labs/ctproof/pkg/logging"
	"github.com/suffix-labs/ctproof/pkg/network"
)

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg *config.Config
	log zerolog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      config.New(),
		log:    zerolog.Nop(),
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "ctproof",
		Short: "Confidential-value transfer over secp256k1",
		Long: "ctproof commits to an amount with a Pedersen commitment, proves it over a\n" +
			"Fiat-Shamir transcript, signs the envelope with BIP-340 Schnorr and ships\n" +
			"it to a verifier over TCP.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Argument errors have already been reported with usage by now.
			cmd.SilenceUsage = true
			// Subcommands share the amount key, so only the running one is bound.
			if cmd.Flags().Lookup("amount") != nil {
				a.bind(cmd.Flags(), config.KeyAmount, "amount")
			}
			return a.load()
		},
	}
	// stdout carries only result lines; usage and help go to stderr.
	root.SetOut(stderr)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("generators", group.GeneratorsHashToCurve.String(), "Pedersen H construction: hash-to-curve or legacy")
	a.bind(flags, config.KeyLogLevel, "log-level")
	a.bind(flags, config.KeyLogFormat, "log-format")
	a.bind(flags, config.KeyGenerators, "generators")

	root.AddCommand(
		proverCMD(a),
		verifierCMD(a),
		demoCMD(a),
		keygenCMD(a),
		versionCMD(a),
	)
	return root
}

func (a *app) bind(flags *pflag.FlagSet, key, name string) {
	if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    a.stderr,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) generators() (*group.Generators, error) {
	return group.NewGenerators(a.cfg.GeneratorMode())
}

func (a *app) transport() *network.Transport {
	t := network.NewTransport()
	t.DialTimeout = a.cfg.Network.DialTimeout
	t.IOTimeout = a.cfg.Network.IOTimeout
	t.DialAttempts = a.cfg.Network.DialAttempts
	t.MaxMessageSize = a.cfg.Network.MaxMessageSize
	t.Log = a.log
	return t
}
