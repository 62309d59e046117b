package secrets

import (
	"fmt"
	"io"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/keyring"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

// Engine encrypts and decrypts records through a keyring provider.
type Engine struct {
	provider keyring.Provider
	log      logger.Logger
}

// NewEngine returns an Engine backed by p.
func NewEngine(p keyring.Provider, log logger.Logger) *Engine {
	return &Engine{provider: p, log: log}
}

// Encrypt frames r, encrypts it to recipients and writes the ciphertext to sink.
func (e *Engine) Encrypt(r Record, recipients keyring.RecipientSet, sink io.Writer) error {
	if recipients.IsEmpty() {
		return perrors.ErrNoRecipients
	}

	plaintext, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: framing record: %w", perrors.ErrEncryptionFailed, err)
	}
	defer clear(plaintext)

	e.log.Debugf("Encrypting record for %d recipient(s)", recipients.Len())
	ciphertext, err := e.provider.Encrypt(plaintext, recipients)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrEncryptionFailed, err)
	}

	if _, err := sink.Write(ciphertext); err != nil {
		return fmt.Errorf("%w: writing ciphertext: %w", perrors.ErrEncryptionFailed, err)
	}

	return nil
}

// Decrypt reads ciphertext from source and returns the record it holds.
func (e *Engine) Decrypt(source io.Reader) (Record, error) {
	ciphertext, err := io.ReadAll(source)
	if err != nil {
		return Record{}, fmt.Errorf("%w: reading ciphertext: %w", perrors.ErrDecryptionFailed, err)
	}

	e.log.Debugf("Decrypting %d bytes of ciphertext", len(ciphertext))
	plaintext, err := e.provider.Decrypt(ciphertext)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", perrors.ErrDecryptionFailed, err)
	}
	defer clear(plaintext)

	return Unmarshal(plaintext)
}
