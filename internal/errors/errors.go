package errors

import "errors"

// Storage errors indicate issues with the vault layout or file access.
var (
	// ErrNotFound indicates the record or account directory does not exist.
	ErrNotFound = errors.New("secret not found")

	// ErrAlreadyExists indicates a record already exists at the target path.
	// Records are written at most once; rewriting requires removing the file first.
	ErrAlreadyExists = errors.New("secret already exists")

	// ErrPermissionDenied indicates the filesystem refused access to a record.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidIdentity indicates an account or vendor that cannot be mapped to a path.
	ErrInvalidIdentity = errors.New("invalid secret identity")

	// ErrInvalidSecretType indicates a secret type other than passphrase, token or otp.
	ErrInvalidSecretType = errors.New("invalid secret type")
)

// Cryptographic errors indicate failures at the plaintext/ciphertext boundary.
var (
	// ErrNoRecipients indicates encryption was requested with an empty recipient set.
	ErrNoRecipients = errors.New("no recipients to encrypt to")

	// ErrEncryptionFailed indicates the keyring could not produce ciphertext.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates the keyring could not decrypt the record.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedRecord indicates decrypted plaintext is not a valid secret record.
	ErrMalformedRecord = errors.New("malformed secret record")

	// ErrInvalidRecipient indicates a recipient string the keyring cannot parse.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrNoIdentities indicates no private keys were available to the keyring.
	ErrNoIdentities = errors.New("no identities available")
)

// OTP errors indicate failures deriving a one-time code.
var (
	// ErrVerificationMismatch indicates a generated code failed its own validation.
	ErrVerificationMismatch = errors.New("one-time code failed verification")

	// ErrInvalidSeed indicates the stored seed is not valid base32.
	ErrInvalidSeed = errors.New("invalid one-time password seed")
)

// Input errors indicate invalid values supplied by the caller or configuration.
var (
	// ErrEmptySecret indicates a write was requested without a secret value.
	ErrEmptySecret = errors.New("secret value is empty")

	// ErrInvalidEncoding indicates a secret or user id that is not valid UTF-8.
	// Records are stored as text, so such values cannot be kept byte for byte.
	ErrInvalidEncoding = errors.New("secret is not valid UTF-8")

	// ErrInvalidPolicy indicates age thresholds that are negative or out of order.
	ErrInvalidPolicy = errors.New("invalid age policy")

	// ErrInvalidConfig indicates the configuration file is malformed or inconsistent.
	ErrInvalidConfig = errors.New("configuration is invalid")
)
