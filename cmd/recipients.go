package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/vault"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Print the recipients new secrets are encrypted to by default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		recipients, err := svc.Recipients(cmd.Context())
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatWriteError(err, vault.Identity{}))
			return displayed(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(recipients, "\n"))
		return nil
	},
}
