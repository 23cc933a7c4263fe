package main

import (
	"context"
	"fmt"
	"net"

	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/suffix-labs/ctproof/pkg/api"
	"github.com/suffix-labs/ctproof/pkg/roles"
)

func verifierCMD(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "verifier <host:port>",
		Short: "Receive and verify one confidential transaction",
		Long: "Bind host:port, accept exactly one connection and check the proof and the\n" +
			"signature of the transaction it carries. A rejected transaction is a\n" +
			"protocol outcome and still exits 0.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.transport()
			ln, err := t.Listen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer ln.Close()

			a.log.Info().Str("addr", ln.Addr().String()).Msg("waiting for transaction")
			verdict, err := a.runVerifier(cmd.Context(), ln, dump)
			if err != nil {
				return err
			}
			a.printVerdict(verdict)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "pretty-print the received JSON to stderr")
	return cmd
}

// runVerifier receives one message on ln and checks it.
func (a *app) runVerifier(ctx context.Context, ln net.Listener, dump bool) (roles.Verdict, error) {
	wire, err := a.transport().Receive(ctx, ln)
	if err != nil {
		return roles.Verdict{}, err
	}

	if dump {
		a.dump(wire)
	}

	verdict := api.VerifyTransaction(wire, roles.WithVerifierLogger(a.log))
	if verdict.Err != nil {
		a.log.Debug().Err(verdict.Err).Msg("transaction rejected")
	}
	return verdict, nil
}

func (a *app) printVerdict(verdict roles.Verdict) {
	fmt.Fprintf(a.stdout, "Proof valid: %t\n", verdict.ProofValid)
	fmt.Fprintf(a.stdout, "Signature valid: %t\n", verdict.SignatureValid)
	if verdict.Valid() {
		fmt.Fprintln(a.stdout, "VALID")
	} else {
		fmt.Fprintln(a.stdout, "INVALID")
	}
}

func (a *app) dump(wire []byte) {
	f := prettyjson.NewFormatter()
	f.DisabledColor = true
	out, err := f.Format(wire)
	if err != nil {
		a.log.Warn().Err(err).Int("bytes", len(wire)).Msg("received payload is not JSON")
		return
	}
	fmt.Fprintln(a.stderr, string(out))
}
