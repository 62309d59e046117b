package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/otp"
	"github.com/PolarWolf314/passman/internal/policy"
)

// Settings is a Config with every default filled in and every path expanded.
type Settings struct {
	CryptHome     string
	Account       string
	IdentityFiles []string
	Recipients    []string
	Armor         bool
	Policy        policy.Policy
	OTP           otp.Options
}

// Resolve fills defaults into c, applies environment overrides and validates
// the result.
func Resolve(c *Config) (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	s := &Settings{
		CryptHome:  c.CryptHome,
		Account:    c.Account,
		Recipients: c.Recipients,
		Armor:      c.Armor,
		Policy:     c.Policy(),
		OTP:        c.OTPOptions(),
	}

	if env := os.Getenv(CryptHomeEnv); env != "" {
		s.CryptHome = env
	}
	if s.CryptHome == "" {
		s.CryptHome = filepath.Join(homeDir, ".crypt")
	}
	s.CryptHome = expandHome(s.CryptHome, homeDir)

	if s.Account == "" {
		s.Account = DefaultAccount
	}

	if len(c.IdentityFiles) == 0 {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("error getting config directory: %w", err)
		}
		s.IdentityFiles = []string{filepath.Join(configDir, "passman", "identity.txt")}
	} else {
		for _, f := range c.IdentityFiles {
			s.IdentityFiles = append(s.IdentityFiles, expandHome(f, homeDir))
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values no component can work with.
func (s *Settings) Validate() error {
	if !filepath.IsAbs(s.CryptHome) {
		return fmt.Errorf("%w: crypt_home must be an absolute path, got %q", perrors.ErrInvalidConfig, s.CryptHome)
	}
	if strings.ContainsAny(s.Account, `/\`) || s.Account == "." || s.Account == ".." {
		return fmt.Errorf("%w: invalid account %q", perrors.ErrInvalidConfig, s.Account)
	}
	if err := s.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrInvalidConfig, err)
	}
	return nil
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(homeDir, rest)
	}
	return path
}
