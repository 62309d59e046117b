// Package policy classifies secrets by age against rotation thresholds.
//
// Classification is pure: it never reads the clock and never fails. What to
// do with an old secret is the caller's decision.
package policy

import (
	"fmt"
	"math"
	"time"

	perrors "github.com/PolarWolf314/passman/internal/errors"
)

const (
	DefaultSoftDays = 60
	DefaultHardDays = 90
)

const day = 24 * time.Hour

// MaxDays is the largest threshold whose duration fits in a time.Duration.
const MaxDays = int(math.MaxInt64 / int64(day))

// Classification is the rotation status of a secret.
type Classification int

const (
	// Fresh secrets are at most SoftDays old.
	Fresh Classification = iota
	// SoftWarning secrets are past SoftDays but at most HardDays old.
	SoftWarning
	// HardExpired secrets are past HardDays and should be rotated.
	HardExpired
)

func (c Classification) String() string {
	switch c {
	case Fresh:
		return "fresh"
	case SoftWarning:
		return "soft-warning"
	case HardExpired:
		return "hard-expired"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Policy holds the soft and hard age limits in whole days.
type Policy struct {
	SoftDays int
	HardDays int
}

// Default returns the 60/90 day policy.
func Default() Policy {
	return Policy{SoftDays: DefaultSoftDays, HardDays: DefaultHardDays}
}

// Validate rejects negative, oversized or inverted thresholds.
func (p Policy) Validate() error {
	if p.SoftDays < 0 || p.HardDays < 0 {
		return fmt.Errorf("%w: thresholds must not be negative (soft=%d, hard=%d)", perrors.ErrInvalidPolicy, p.SoftDays, p.HardDays)
	}
	if p.SoftDays > MaxDays || p.HardDays > MaxDays {
		return fmt.Errorf("%w: thresholds must be at most %d days (soft=%d, hard=%d)", perrors.ErrInvalidPolicy, MaxDays, p.SoftDays, p.HardDays)
	}
	if p.HardDays < p.SoftDays {
		return fmt.Errorf("%w: hard limit %d is below soft limit %d", perrors.ErrInvalidPolicy, p.HardDays, p.SoftDays)
	}
	return nil
}

// Classify returns the classification of a secret created at genesis, as of now.
func (p Policy) Classify(genesis, now time.Time) Classification {
	return Classify(genesis, now, p.SoftDays, p.HardDays)
}

// Classify compares the exact age of a secret against whole-day thresholds.
// A secret exactly softDays old is still Fresh; one second more is SoftWarning.
func Classify(genesis, now time.Time, softDays, hardDays int) Classification {
	age := now.Sub(genesis)
	switch {
	case age > threshold(hardDays):
		return HardExpired
	case age > threshold(softDays):
		return SoftWarning
	default:
		return Fresh
	}
}

// threshold converts days to a duration, saturating instead of overflowing.
func threshold(days int) time.Duration {
	if days > MaxDays {
		return math.MaxInt64
	}
	return time.Duration(days) * day
}

// Age returns how old a secret is as of now, never negative.
func Age(genesis, now time.Time) time.Duration {
	if age := now.Sub(genesis); age > 0 {
		return age
	}
	return 0
}
