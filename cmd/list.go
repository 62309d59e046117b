package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/utils"
	"github.com/PolarWolf314/passman/internal/vault"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the vendors with a stored secret of the given type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := vault.ParseSecretType(secretType)
		if err != nil {
			return err
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		accountHome := vault.AccountHome(settings.CryptHome, settings.Account)
		vendors, err := svc.List(cmd.Context(), accountHome, t)
		switch {
		case errors.Is(err, perrors.ErrNotFound):
			fmt.Fprintln(out, ui.Error.Sprint("✗")+" Account "+ui.Highlight.Sprint(settings.Account)+" has no secrets\n"+
				ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("passman accounts")+" to see the existing accounts")
			return displayed(err)
		case err != nil:
			return err
		case len(vendors) == 0:
			fmt.Fprintln(out, "No secrets of type "+ui.Highlight.Sprint(string(t))+" in account "+ui.Highlight.Sprint(settings.Account))
			return nil
		}

		fmt.Fprint(out, "Listing secrets of type "+ui.Highlight.Sprint(string(t))+" in account "+
			ui.Highlight.Sprint(settings.Account)+":"+utils.FormatNames(vendors))
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts in the crypt home",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		accounts, err := svc.Accounts(cmd.Context(), settings.CryptHome)
		if err != nil && !errors.Is(err, perrors.ErrNotFound) {
			return err
		}
		if len(accounts) == 0 {
			fmt.Fprintln(out, "No accounts in "+ui.Path.Sprint(settings.CryptHome))
			return nil
		}

		fmt.Fprint(out, "Accounts in "+ui.Path.Sprint(settings.CryptHome)+":"+utils.FormatNames(accounts))
		return nil
	},
}
