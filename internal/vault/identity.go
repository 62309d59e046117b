package vault

import (
	"fmt"
	"path/filepath"
	"strings"

	perrors "github.com/PolarWolf314/passman/internal/errors"
)

// VaultDir is the directory under crypt_home that holds every account.
const VaultDir = "passman"

// SecretType is the kind of credential a record holds.
type SecretType string

const (
	Passphrase SecretType = "passphrase"
	Token      SecretType = "token"
	OTP        SecretType = "otp"
)

// SecretTypes lists every valid secret type.
var SecretTypes = []SecretType{Passphrase, Token, OTP}

// ParseSecretType validates s as a secret type.
func ParseSecretType(s string) (SecretType, error) {
	for _, t := range SecretTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected passphrase, token or otp)", perrors.ErrInvalidSecretType, s)
}

func (t SecretType) String() string {
	return string(t)
}

// Identity names a single record.
type Identity struct {
	CryptHome  string
	Account    string
	Vendor     string
	SecretType SecretType
}

// Validate checks that the identity maps to a path inside its account directory.
func (id Identity) Validate() error {
	if id.CryptHome == "" {
		return fmt.Errorf("%w: crypt home is empty", perrors.ErrInvalidIdentity)
	}
	if err := validateSegment("account", id.Account); err != nil {
		return err
	}
	if err := validateSegment("vendor", id.Vendor); err != nil {
		return err
	}
	if _, err := ParseSecretType(string(id.SecretType)); err != nil {
		return err
	}
	return nil
}

// AccountHome returns the directory holding an account's records.
func AccountHome(cryptHome, account string) string {
	return filepath.Join(cryptHome, VaultDir, account)
}

func validateSegment(name, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("%w: %s is empty", perrors.ErrInvalidIdentity, name)
	case value == "." || value == "..":
		return fmt.Errorf("%w: %s %q is not allowed", perrors.ErrInvalidIdentity, name, value)
	case strings.ContainsAny(value, `/\`) || strings.ContainsRune(value, 0):
		return fmt.Errorf("%w: %s %q contains a path separator", perrors.ErrInvalidIdentity, name, value)
	}
	return nil
}
