package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/passman/internal/configs"
	"github.com/PolarWolf314/passman/internal/keyring"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/otp"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/utils"
	"github.com/PolarWolf314/passman/internal/vault"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	verbose    bool
	debug      bool
	configPath string
	account    string
	secretType string
	cryptHome  string

	Logger   logger.Logger
	settings *configs.Settings

	// now is the clock handed to workflows.
	now = time.Now

	// stdinIsTerminal decides between prompting and reading piped input.
	stdinIsTerminal = utils.IsTerminal

	RootCmd = &cobra.Command{
		Use:   "passman",
		Short: "Encrypt and decrypt secrets stored as files",
		Long: `passman stores passphrases, tokens and one-time password seeds as individually
encrypted files under <crypt-home>/passman/<account>/, and retrieves them on demand.

Records older than the soft age limit produce a warning on read. Records past the
hard limit are refused unless --allow-expired is given.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <config dir>/passman/config.toml, or $"+configs.ConfigEnv+")")
	RootCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "account the secret belongs to (default from config, or \"default\")")
	RootCmd.PersistentFlags().StringVarP(&secretType, "secret-type", "t", string(vault.Passphrase), "type of secret: passphrase, token or otp")
	RootCmd.PersistentFlags().StringVarP(&cryptHome, "crypt-home", "H", "", "root of the encrypted filesystem (default $HOME/.crypt)")

	// Accept --secret_type and friends as spelled by older scripts.
	RootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	RootCmd.AddCommand(readCmd)
	RootCmd.AddCommand(writeCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(accountsCmd)
	RootCmd.AddCommand(otpCmd)
	RootCmd.AddCommand(recipientsCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Cancelling ctx stops any workflow that has
// not started yet.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// setup builds the logger and resolves settings before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}
	Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)

	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	path := configPath
	if path == "" {
		p, err := configs.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	Logger.Debugf("Loading config from %s", path)

	config, err := configs.Load(path)
	if err != nil {
		return err
	}

	if account != "" {
		config.Account = account
	}
	if cryptHome != "" {
		abs, err := filepath.Abs(cryptHome)
		if err != nil {
			return fmt.Errorf("resolving --crypt-home: %w", err)
		}
		config.CryptHome = abs
	}

	s, err := configs.Resolve(config)
	if err != nil {
		return err
	}
	// An explicit flag wins over the environment override.
	if cryptHome != "" {
		s.CryptHome = config.CryptHome
	}

	settings = s
	Logger.Debugf("Using crypt home %s, account %s", settings.CryptHome, settings.Account)
	return nil
}

// newService wires the vault components from the resolved settings.
func newService() (*workflows.Service, error) {
	provider, err := keyring.NewAgeProvider(keyring.AgeConfig{
		IdentityFiles: settings.IdentityFiles,
		Armor:         settings.Armor,
	}, Logger)
	if err != nil {
		return nil, err
	}

	otpEngine, err := otp.New(settings.OTP, Logger)
	if err != nil {
		return nil, err
	}

	return workflows.New(workflows.Deps{
		Store:           vault.NewStore(provider.Extension(), Logger),
		Engine:          secrets.NewEngine(provider, Logger),
		Provider:        provider,
		Policy:          settings.Policy,
		OTP:             otpEngine,
		Logger:          Logger,
		ExtraRecipients: keyring.NewRecipientSet(settings.Recipients...),
		Now:             now,
	}), nil
}

// identityFor builds the record identity from the vendor and the global flags.
func identityFor(vendor string) (vault.Identity, error) {
	t, err := vault.ParseSecretType(secretType)
	if err != nil {
		return vault.Identity{}, err
	}
	return vault.Identity{
		CryptHome:  settings.CryptHome,
		Account:    settings.Account,
		Vendor:     vendor,
		SecretType: t,
	}, nil
}

// vendorArg takes the vendor from --vendor or the single positional argument.
func vendorArg(flag string, args []string) (string, error) {
	switch {
	case flag != "" && len(args) > 0:
		return "", errors.New("give the vendor either as an argument or with --vendor, not both")
	case flag != "":
		return flag, nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", errors.New("--vendor is required")
	}
}

// displayedError marks an error whose message has already been shown.
type displayedError struct {
	error
}

func (e displayedError) Unwrap() error {
	return e.error
}

func displayed(err error) error {
	return displayedError{err}
}

// IsDisplayed reports whether err was already presented to the user.
func IsDisplayed(err error) bool {
	var d displayedError
	return errors.As(err, &d)
}

// Helper functions for testing

// ResetGlobalState resets all flag variables to their defaults.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	account = ""
	secretType = string(vault.Passphrase)
	cryptHome = ""
	settings = nil
	now = time.Now
	stdinIsTerminal = utils.IsTerminal
	resetReadCommandState()
	resetWriteCommandState()
	resetOTPCommandState()
}
