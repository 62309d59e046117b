package keyring

// Provider is the asymmetric encryption capability behind the vault.
type Provider interface {
	// Encrypt encrypts plaintext so that any holder of a private key matching
	// one of recipients can decrypt it.
	Encrypt(plaintext []byte, recipients RecipientSet) ([]byte, error)

	// Decrypt decrypts ciphertext with the private keys available to the provider.
	Decrypt(ciphertext []byte) ([]byte, error)

	// ListAvailableRecipients returns the recipients of every private key the
	// provider holds.
	ListAvailableRecipients() (RecipientSet, error)

	// Extension is the file extension of ciphertext produced by this provider,
	// including the leading dot.
	Extension() string
}
