package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ctproof/pkg/keys"
	"github.com/suffix-labs/ctproof/pkg/request"
)

func keygenCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a receiver key pair and print its public encodings",
		Long: "Generate an ephemeral key pair and print the base58 compressed public key\n" +
			"(for prover --receiver), the hex x-only key and a payment request URI.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sk, err := keys.GeneratePrivateKey(rand.Reader)
			if err != nil {
				return err
			}
			pub := sk.PublicKey()
			xonly := pub.XOnly()
			fmt.Fprintf(a.stdout, "Public key: %s\n", pub.Base58())
			fmt.Fprintf(a.stdout, "X-only:     %x\n", xonly[:])
			fmt.Fprintf(a.stdout, "Request:    %s\n", (&request.PaymentRequest{Receiver: pub}).Encode())
			return nil
		},
	}
}
