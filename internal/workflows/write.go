package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/keyring"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/vault"
)

// WriteResult describes a newly stored record.
type WriteResult struct {
	// Path is the record file.
	Path string

	// Recipients the record was encrypted to, sorted.
	Recipients []string

	// Genesis is the creation time stored in the record.
	Genesis time.Time
}

// Write encrypts rec and stores it as a new record for id.
//
// When recipients is empty the record is encrypted to every recipient the
// provider holds a private key for. Configured extra recipients are always
// added. UserID is dropped for anything but passphrase records and a zero
// Genesis is set to the current time.
//
// Returns ErrInvalidIdentity for an identity that cannot be mapped to a path.
// Returns ErrEmptySecret if rec has no secret.
// Returns ErrInvalidEncoding if the secret or user id is not valid UTF-8.
// Returns ErrAlreadyExists if a record for id is already stored.
// Returns ErrNoRecipients if there is nobody to encrypt to.
// Returns ErrEncryptionFailed if encryption fails; no file is left behind.
func (s *Service) Write(ctx context.Context, id vault.Identity, rec secrets.Record, recipients keyring.RecipientSet) (*WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.store.Resolve(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rec.Secret) == "" {
		return nil, perrors.ErrEmptySecret
	}
	if id.SecretType != vault.Passphrase {
		rec.UserID = ""
	}
	if err := rec.ValidateEncoding(); err != nil {
		return nil, err
	}
	if rec.Genesis.IsZero() {
		rec.Genesis = s.now().UTC()
	}

	to, err := s.writeRecipients(recipients)
	if err != nil {
		return nil, err
	}

	handle, err := s.store.PrepareForWrite(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	s.log.Debugf("Encrypting %s to %d recipient(s)", path, to.Len())
	if err := s.engine.Encrypt(rec, to, handle); err != nil {
		return nil, err
	}

	if err := handle.Commit(); err != nil {
		return nil, fmt.Errorf("storing record: %w", err)
	}

	s.log.Infof("Stored %s", path)
	return &WriteResult{
		Path:       path,
		Recipients: to.Sorted(),
		Genesis:    rec.Genesis,
	}, nil
}

func (s *Service) writeRecipients(explicit keyring.RecipientSet) (keyring.RecipientSet, error) {
	to := explicit
	if to.IsEmpty() {
		available, err := s.provider.ListAvailableRecipients()
		if err != nil {
			if s.extra.IsEmpty() {
				return keyring.RecipientSet{}, fmt.Errorf("%w: %w", perrors.ErrNoRecipients, err)
			}
			s.log.Debugf("No local recipients: %v", err)
		} else {
			to = available
		}
	}

	to = to.Union(s.extra)
	if to.IsEmpty() {
		return keyring.RecipientSet{}, perrors.ErrNoRecipients
	}
	return to, nil
}

// Recipients returns the recipients a write without explicit recipients
// would use.
func (s *Service) Recipients(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	to, err := s.writeRecipients(keyring.RecipientSet{})
	if err != nil {
		return nil, err
	}
	return to.Sorted(), nil
}
