package main

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ctproof/pkg/api"
	"github.com/suffix-labs/ctproof/pkg/keys"
	"github.com/suffix-labs/ctproof/pkg/request"
	"github.com/suffix-labs/ctproof/pkg/roles"
)

func proverCMD(a *app) *cobra.Command {
	var receiverStr, requestStr string

	cmd := &cobra.Command{
		Use:   "prover <host:port>",
		Short: "Prove and send one confidential transaction",
		Long: "Generate an ephemeral sender key, commit to the amount, prove and sign the\n" +
			"envelope, and send it to the verifier listening on host:port.\n\n" +
			"The receiver and amount may come from a payment request (--request).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount := a.cfg.AmountValue()

			var receiver *keys.PublicKey
			switch {
			case requestStr != "" && receiverStr != "":
				return fmt.Errorf("--request and --receiver are mutually exclusive")
			case requestStr != "":
				req, err := request.Parse(requestStr)
				if err != nil {
					return fmt.Errorf("invalid --request: %w", err)
				}
				receiver = req.Receiver
				if req.Amount != nil {
					if cmd.Flags().Changed("amount") && *req.Amount != amount {
						return fmt.Errorf("--amount %d conflicts with requested amount %d", amount, *req.Amount)
					}
					amount = *req.Amount
				}
			case receiverStr != "":
				var err error
				receiver, err = keys.ParsePublicKeyBase58(receiverStr)
				if err != nil {
					return fmt.Errorf("invalid --receiver: %w", err)
				}
			}

			res, err := a.runProver(cmd.Context(), args[0], receiver, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Sent transaction %s to %s\n", res.TxID, args[0])
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("amount", fmt.Sprint(api.DefaultAmount), "amount to commit to (decimal, 0 to 2^64-1)")
	flags.StringVar(&receiverStr, "receiver", "", "base58 receiver public key (default: ephemeral)")
	flags.StringVar(&requestStr, "request", "", "ctproof: payment request URI naming the receiver and amount")

	return cmd
}

// runProver performs one prove-and-send cycle. A nil receiver is replaced
// by an ephemeral key.
func (a *app) runProver(ctx context.Context, addr string, receiver *keys.PublicKey, amount uint64) (*api.Result, error) {
	gens, err := a.generators()
	if err != nil {
		return nil, err
	}

	sender, err := keys.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("prover failed: %w", err)
	}
	if receiver == nil {
		sk, err := keys.GeneratePrivateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("prover failed: %w", err)
		}
		receiver = sk.PublicKey()
	}

	res, err := api.ProveTransaction(sender, receiver, amount,
		roles.WithGenerators(gens),
		roles.WithLogger(a.log),
	)
	if err != nil {
		return nil, fmt.Errorf("prover failed: %w", err)
	}

	a.log.Info().Str("txid", res.TxID).Str("addr", addr).Msg("sending transaction")
	if err := a.transport().Send(ctx, addr, res.Wire); err != nil {
		return nil, fmt.Errorf("prover failed: %w", err)
	}
	return res, nil
}
