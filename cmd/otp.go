package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
)

var otpSeedFromStdin bool

func init() {
	otpCmd.Flags().BoolVar(&otpSeedFromStdin, "seed-stdin", false, "read the base32 seed from stdin instead of prompting")
}

func resetOTPCommandState() {
	otpSeedFromStdin = false
}

var otpCmd = &cobra.Command{
	Use:   "otp",
	Short: "Print the current one-time password for a seed without storing it",
	Long: `Derives the current TOTP code for a base32 seed, for checking a seed before
storing it with ` + "`passman write -t otp`" + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := readSecretInput(cmd, otpSeedFromStdin || !stdinIsTerminal(), "Enter seed: ")
		if err != nil {
			return err
		}
		defer clear(seed)

		svc, err := newService()
		if err != nil {
			return err
		}

		t := now()
		code, err := svc.GenerateOTP(cmd.Context(), string(seed), t)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Secret.Sprint(code)+" "+ui.Muted.Sprintf("valid for %s", svc.OTPValidFor(t)))
		return nil
	},
}
