package workflows

import (
	"context"
	"time"

	"github.com/PolarWolf314/passman/internal/policy"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/vault"
)

// ReadResult is a decrypted record and its rotation status.
type ReadResult struct {
	Record secrets.Record

	// Path is the record file.
	Path string

	// Classification of the record's age under the configured policy.
	Classification policy.Classification

	// Age of the record at the time of the read.
	Age time.Duration

	// Code is the current one-time code. It is only set for otp records.
	Code string

	// Remaining is how long Code stays valid.
	Remaining time.Duration
}

// Read decrypts the record stored for id and classifies its age.
//
// Returns ErrInvalidIdentity for an identity that cannot be mapped to a path.
// Returns ErrNotFound if no record is stored for id.
// Returns ErrDecryptionFailed if no held identity can decrypt the record.
// Returns ErrMalformedRecord if the decrypted plaintext is not a record.
// Returns ErrInvalidSeed or ErrVerificationMismatch for otp records whose
// code cannot be derived.
func (s *Service) Read(ctx context.Context, id vault.Identity) (*ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.store.Resolve(id)
	if err != nil {
		return nil, err
	}

	handle, err := s.store.PrepareForRead(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	rec, err := s.engine.Decrypt(handle)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &ReadResult{
		Record:         rec,
		Path:           path,
		Classification: s.policy.Classify(rec.Genesis, now),
		Age:            policy.Age(rec.Genesis, now),
	}
	s.log.Debugf("Record %s is %s (%s old)", path, result.Classification, result.Age.Round(time.Second))

	if id.SecretType == vault.OTP {
		code, err := s.otp.Generate(rec.Secret, now)
		if err != nil {
			return nil, err
		}
		result.Code = code
		result.Remaining = s.otp.Remaining(now)
	}

	return result, nil
}
