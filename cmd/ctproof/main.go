// ctproof CLI - confidential-value transfer over secp256k1
//
// A prover commits to an amount, proves the commitment is well formed,
// signs the envelope with BIP-340 Schnorr and ships it over TCP to a
// verifier, which checks the proof and the signature.
//
// Example usage:
//
//	# Wait for one transaction
//	ctproof verifier 127.0.0.1:9000
//
//	# Send amount 42 to an ephemeral receiver
//	ctproof prover 127.0.0.1:9000
//
//	# Send to a known receiver key
//	ctproof keygen
//	ctproof prover --amount 1000 --receiver <base58> 127.0.0.1:9000
//
//	# Both roles in one process
//	ctproof demo
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
