package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ctproof/pkg/api"
	"github.com/suffix-labs/ctproof/pkg/roles"
	"golang.org/x/sync/errgroup"
)

func demoCMD(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run prover and verifier in one process over loopback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln, err := a.transport().Listen(cmd.Context(), "127.0.0.1:0")
			if err != nil {
				return err
			}
			defer ln.Close()
			addr := ln.Addr().String()

			var (
				res     *api.Result
				verdict roles.Verdict
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				verdict, err = a.runVerifier(ctx, ln, dump)
				return err
			})
			g.Go(func() error {
				var err error
				res, err = a.runProver(ctx, addr, nil, a.cfg.AmountValue())
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("demo failed: %w", err)
			}

			fmt.Fprintf(a.stdout, "Sent transaction %s to %s\n", res.TxID, addr)
			a.printVerdict(verdict)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("amount", fmt.Sprint(api.DefaultAmount), "amount to commit to (decimal, 0 to 2^64-1)")
	flags.BoolVar(&dump, "dump", false, "pretty-print the transferred JSON to stderr")
	return cmd
}
