package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/policy"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/vault"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	readVendor       string
	readPrint        bool
	readAllowExpired bool

	// copyToClipboard is replaced in tests.
	copyToClipboard = clipboard.WriteAll

	errSecretExpired = errors.New("secret is past its hard age limit")
)

func init() {
	readCmd.Flags().StringVar(&readVendor, "vendor", "", "vendor of the stored secret")
	readCmd.Flags().BoolVarP(&readPrint, "print", "p", false, "print the secret instead of copying it to the clipboard")
	readCmd.Flags().BoolVar(&readAllowExpired, "allow-expired", false, "reveal secrets past the hard age limit")
}

func resetReadCommandState() {
	readVendor = ""
	readPrint = false
	readAllowExpired = false
	copyToClipboard = clipboard.WriteAll
}

var readCmd = &cobra.Command{
	Use:   "read [vendor]",
	Short: "Decrypt a secret and copy it to the clipboard",
	Long: `Decrypts the secret stored for a vendor and copies it to the clipboard.

For otp secrets the current one-time code is copied instead of the seed.
Secrets older than the soft age limit produce a warning. Secrets past the hard
limit are refused unless --allow-expired is given.

The vendor is given positionally or with --vendor. -v is --verbose, not --vendor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, err := vendorArg(readVendor, args)
		if err != nil {
			return err
		}
		id, err := identityFor(vendor)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner(cmd.OutOrStdout(), "Decrypting secret...")
		defer cleanup()

		svc, err := newService()
		if err != nil {
			spinner.FinalMSG = formatSetupError(err)
			return displayed(err)
		}

		result, err := svc.Read(cmd.Context(), id)
		if err != nil {
			spinner.FinalMSG = formatReadError(err, id)
			return displayed(err)
		}

		status := ageStatus(result)
		if result.Classification == policy.HardExpired && !readAllowExpired {
			spinner.FinalMSG = status +
				ui.Info.Sprint("→") + " Rotate it, or pass " + ui.Flag.Sprint("--allow-expired") + " to read it anyway"
			return displayed(errSecretExpired)
		}

		value := result.Record.Secret
		what := "Secret"
		if id.SecretType == vault.OTP {
			value = result.Code
			what = "One-time password"
		}

		if readPrint {
			spinner.FinalMSG = status + value
			return nil
		}

		if err := copyToClipboard(value); err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to copy to clipboard: " + err.Error() + "\n" +
				ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--print") + " to print it instead"
			return displayed(err)
		}

		msg := status + ui.Success.Sprint("✓") + " " + what + " copied to clipboard"
		if result.Record.UserID != "" {
			msg += ", user id: " + ui.Highlight.Sprint(result.Record.UserID)
		}
		if result.Code != "" {
			msg += " " + ui.Muted.Sprintf("valid for %s", result.Remaining)
		}
		spinner.FinalMSG = msg
		return nil
	},
}

// ageStatus describes the age of a record that is not fresh, or returns "".
func ageStatus(result *workflows.ReadResult) string {
	switch result.Classification {
	case policy.SoftWarning:
		return ui.Warning.Sprint("⚠") + " This secret is " + ui.Days(result.Age) + " old " +
			ui.Muted.Sprint(ui.Status(result.Classification)) + ", consider rotating it\n"
	case policy.HardExpired:
		return ui.Error.Sprint("✗") + " This secret is " + ui.Days(result.Age) + " old and has expired " +
			ui.Muted.Sprint(ui.Status(result.Classification)) + "\n"
	default:
		return ""
	}
}

func formatReadError(err error, id vault.Identity) string {
	switch {
	case errors.Is(err, perrors.ErrNotFound):
		return ui.Error.Sprint("✗") + " No " + string(id.SecretType) + " stored for " + ui.Highlight.Sprint(id.Vendor) +
			" in account " + ui.Highlight.Sprint(id.Account) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("passman list -t "+string(id.SecretType)) + " to see what is stored"

	case errors.Is(err, perrors.ErrNoIdentities):
		return ui.Error.Sprint("✗") + " No private keys found to decrypt with\n" +
			ui.Info.Sprint("→") + " Add an age or ssh key to identity_files in your config"

	case errors.Is(err, perrors.ErrDecryptionFailed):
		return ui.Error.Sprint("✗") + " Failed to decrypt " + ui.Highlight.Sprint(id.Vendor) + ". Are you sure you have access?\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, perrors.ErrMalformedRecord):
		return ui.Error.Sprint("✗") + " The record for " + ui.Highlight.Sprint(id.Vendor) + " is corrupted\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, perrors.ErrInvalidSeed), errors.Is(err, perrors.ErrVerificationMismatch):
		return ui.Error.Sprint("✗") + " Unable to generate a one-time password for " + ui.Highlight.Sprint(id.Vendor) + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	default:
		return formatSetupError(err)
	}
}

func formatSetupError(err error) string {
	switch {
	case errors.Is(err, perrors.ErrInvalidIdentity):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Accounts and vendors cannot contain path separators"
	case errors.Is(err, perrors.ErrPermissionDenied):
		return ui.Error.Sprint("✗") + " Permission denied: " + err.Error()
	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}
}

func describe(id vault.Identity) string {
	return fmt.Sprintf("%s %s", ui.Highlight.Sprint(id.Vendor), string(id.SecretType))
}
