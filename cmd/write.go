package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/keyring"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/utils"
	"github.com/PolarWolf314/passman/internal/vault"
)

var (
	writeVendor     string
	writeUserID     string
	writeFromStdin  bool
	writeRecipients []string
)

func init() {
	writeCmd.Flags().StringVar(&writeVendor, "vendor", "", "vendor of the secret")
	writeCmd.Flags().StringVarP(&writeUserID, "user-id", "u", "", "user id stored with a passphrase (prompted if omitted)")
	writeCmd.Flags().BoolVar(&writeFromStdin, "stdin", false, "read the secret from stdin instead of prompting")
	writeCmd.Flags().StringSliceVarP(&writeRecipients, "recipient", "r", nil, "age or ssh public key to encrypt to (repeatable, default: every local key)")
}

func resetWriteCommandState() {
	writeVendor = ""
	writeUserID = ""
	writeFromStdin = false
	writeRecipients = nil
}

var writeCmd = &cobra.Command{
	Use:   "write [vendor]",
	Short: "Encrypt and store a new secret",
	Long: `Prompts for a secret and stores it encrypted for a vendor.

Passphrases also store a user id. Existing secrets are never overwritten.
Without --recipient the secret is encrypted to every key in your identity files,
plus any recipients listed in the config. Piped input is read as with --stdin.

The vendor is given positionally or with --vendor. -v is --verbose, not --vendor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, err := vendorArg(writeVendor, args)
		if err != nil {
			return err
		}
		id, err := identityFor(vendor)
		if err != nil {
			return err
		}

		rec, err := promptRecord(cmd, id)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner(cmd.OutOrStdout(), "Encrypting secret...")
		defer cleanup()

		svc, err := newService()
		if err != nil {
			spinner.FinalMSG = formatSetupError(err)
			return displayed(err)
		}

		result, err := svc.Write(cmd.Context(), id, rec, keyring.NewRecipientSet(writeRecipients...))
		if err != nil {
			spinner.FinalMSG = formatWriteError(err, id)
			return displayed(err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Stored " + describe(id) + " at " + ui.Path.Sprint(result.Path) + "\n" +
			"Encrypted to:" + utils.FormatNames(result.Recipients)
		return nil
	},
}

// promptRecord collects the user id and secret, prompting where flags are absent.
// Piped input is read like --stdin, so the user id must then come from --user-id.
func promptRecord(cmd *cobra.Command, id vault.Identity) (secrets.Record, error) {
	rec := secrets.Record{}
	piped := writeFromStdin || !stdinIsTerminal()

	if id.SecretType == vault.Passphrase {
		rec.UserID = writeUserID
		if rec.UserID == "" && !piped {
			userID, err := utils.ReadLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Enter user id: ")
			if err != nil {
				return rec, err
			}
			rec.UserID = userID
		}
	}

	secret, err := readSecretInput(cmd, piped, "Enter secret value: ")
	if err != nil {
		return rec, err
	}
	rec.Secret = string(secret)
	clear(secret)

	return rec, nil
}

// readSecretInput reads a secret from the command's input when piped,
// and prompts without echo otherwise.
func readSecretInput(cmd *cobra.Command, piped bool, prompt string) ([]byte, error) {
	switch in := cmd.InOrStdin(); {
	case !piped:
		return utils.ReadHidden(prompt)
	case in == os.Stdin:
		return utils.ReadStdin()
	default:
		return utils.ReadSecretFrom(in)
	}
}

func formatWriteError(err error, id vault.Identity) string {
	switch {
	case errors.Is(err, perrors.ErrAlreadyExists):
		return ui.Error.Sprint("✗") + " A " + string(id.SecretType) + " for " + ui.Highlight.Sprint(id.Vendor) +
			" already exists in account " + ui.Highlight.Sprint(id.Account) + "\n" +
			ui.Info.Sprint("→") + " Secrets are never overwritten. Remove the old file first if you are rotating it"

	case errors.Is(err, perrors.ErrEmptySecret):
		return ui.Error.Sprint("✗") + " Refusing to store an empty secret"

	case errors.Is(err, perrors.ErrInvalidEncoding):
		return ui.Error.Sprint("✗") + " Refusing to store " + describe(id) + "\n" +
			ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Encode binary credentials (for example as base64) before storing them"

	case errors.Is(err, perrors.ErrInvalidRecipient):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Recipients are " + ui.Code.Sprint("age1...") + " public keys or ssh authorized-key lines"

	case errors.Is(err, perrors.ErrNoRecipients):
		return ui.Error.Sprint("✗") + " Nobody to encrypt the secret to\n" +
			ui.Info.Sprint("→") + " Add a key to identity_files in your config, or pass " + ui.Flag.Sprint("--recipient")

	case errors.Is(err, perrors.ErrEncryptionFailed):
		return ui.Error.Sprint("✗") + " Failed to encrypt " + describe(id) + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	default:
		return formatSetupError(err)
	}
}
