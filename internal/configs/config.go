package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/otp"
	"github.com/PolarWolf314/passman/internal/policy"
)

const (
	// ConfigEnv names a config file to use instead of the default location.
	ConfigEnv = "PASSMAN_CONFIG"
	// CryptHomeEnv overrides crypt_home from the config file.
	CryptHomeEnv = "PASSMAN_CRYPT_HOME"

	DefaultAccount = "default"
)

type Config struct {
	CryptHome     string    `toml:"crypt_home,omitempty"`
	Account       string    `toml:"account,omitempty"`
	IdentityFiles []string  `toml:"identity_files,omitempty"`
	Recipients    []string  `toml:"recipients,omitempty"`
	Armor         bool      `toml:"armor"`
	AgePolicy     AgePolicy `toml:"age_policy"`
	OTP           OTPConfig `toml:"otp"`
}

type AgePolicy struct {
	SoftDays int `toml:"soft_days"`
	HardDays int `toml:"hard_days"`
}

type OTPConfig struct {
	Period    uint   `toml:"period"`
	Digits    int    `toml:"digits"`
	Algorithm string `toml:"algorithm"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Account: DefaultAccount,
		AgePolicy: AgePolicy{
			SoftDays: policy.DefaultSoftDays,
			HardDays: policy.DefaultHardDays,
		},
		OTP: OTPConfig{
			Period:    otp.DefaultPeriod,
			Digits:    otp.DefaultDigits,
			Algorithm: otp.DefaultAlgorithm,
		},
	}
}

// DefaultPath returns the config file location, honouring PASSMAN_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, "passman", "config.toml"), nil
}

// Load reads the config at path. Keys absent from the file keep their
// default values, and a missing file yields Default().
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %v", perrors.ErrInvalidConfig, path, err)
	}

	return config, nil
}

// Save writes config to path, creating parent directories.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Policy returns the age policy described by the config.
func (c *Config) Policy() policy.Policy {
	return policy.Policy{SoftDays: c.AgePolicy.SoftDays, HardDays: c.AgePolicy.HardDays}
}

// OTPOptions returns the options for the otp engine.
func (c *Config) OTPOptions() otp.Options {
	return otp.Options{Period: c.OTP.Period, Digits: c.OTP.Digits, Algorithm: c.OTP.Algorithm}
}
