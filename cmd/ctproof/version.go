package main

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/suffix-labs/ctproof/pkg/envelope"
	"github.com/suffix-labs/ctproof/pkg/transcript"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func versionCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show ctproof version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(a.stdout, logo())
			return nil
		},
	}
}

func logo() string {
	fig := figure.NewFigure("ctproof", "slant", true)
	fragment := strings.Repeat("=", 60)

	info := fmt.Sprintf("Version:%12s%s\n", " ", Version)
	info += fmt.Sprintf("Challenge domain:%3s%s\n", " ", transcript.ChallengeDomain)
	info += fmt.Sprintf("TxID personal:%6s%s\n", " ", envelope.TxIDPersonalization)
	return fmt.Sprintf("\n%s\n%s%s\n%s", fragment, fig.String(), fragment, info)
}
