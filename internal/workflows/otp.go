package workflows

import (
	"context"
	"time"
)

// GenerateOTP derives the code for seed at now without touching the vault.
//
// Returns ErrInvalidSeed if seed is not base32.
// Returns ErrVerificationMismatch if the derived code fails re-validation.
func (s *Service) GenerateOTP(ctx context.Context, seed string, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.otp.Generate(seed, now)
}

// OTPValidFor returns how long a code generated at now stays valid.
func (s *Service) OTPValidFor(now time.Time) time.Duration {
	return s.otp.Remaining(now)
}
