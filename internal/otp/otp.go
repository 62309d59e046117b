package otp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	perrors "github.com/PolarWolf314/passman/internal/errors"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

const (
	DefaultPeriod    = 30
	DefaultDigits    = 6
	DefaultAlgorithm = "SHA1"
)

// Options configures code derivation. Zero values select the defaults.
type Options struct {
	Period    uint
	Digits    int
	Algorithm string
}

// Engine derives and self-verifies TOTP codes. It holds no state between calls.
type Engine struct {
	opts totp.ValidateOpts
	log  logger.Logger

	validate func(passcode, secret string, t time.Time, opts totp.ValidateOpts) (bool, error)
}

// New returns an Engine for opts.
func New(opts Options, log logger.Logger) (*Engine, error) {
	if opts.Period == 0 {
		opts.Period = DefaultPeriod
	}
	if opts.Digits == 0 {
		opts.Digits = DefaultDigits
	}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}

	var digits potp.Digits
	switch opts.Digits {
	case 6:
		digits = potp.DigitsSix
	case 8:
		digits = potp.DigitsEight
	default:
		return nil, fmt.Errorf("%w: otp digits must be 6 or 8, got %d", perrors.ErrInvalidConfig, opts.Digits)
	}

	algorithm, err := parseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	return &Engine{
		opts: totp.ValidateOpts{
			Period:    opts.Period,
			Skew:      0,
			Digits:    digits,
			Algorithm: algorithm,
		},
		log:      log,
		validate: totp.ValidateCustom,
	}, nil
}

func parseAlgorithm(name string) (potp.Algorithm, error) {
	switch strings.ToUpper(name) {
	case "SHA1":
		return potp.AlgorithmSHA1, nil
	case "SHA256":
		return potp.AlgorithmSHA256, nil
	case "SHA512":
		return potp.AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: unsupported otp algorithm %q", perrors.ErrInvalidConfig, name)
	}
}

// Generate returns the code for the time step containing now.
func (e *Engine) Generate(seed string, now time.Time) (string, error) {
	seed = normalizeSeed(seed)
	if seed == "" {
		return "", fmt.Errorf("%w: seed is empty", perrors.ErrInvalidSeed)
	}

	code, err := totp.GenerateCodeCustom(seed, now, e.opts)
	if err != nil {
		if errors.Is(err, potp.ErrValidateSecretInvalidBase32) {
			return "", fmt.Errorf("%w: %v", perrors.ErrInvalidSeed, err)
		}
		return "", fmt.Errorf("generating code: %w", err)
	}

	ok, err := e.validate(code, seed, now, e.opts)
	if err != nil || !ok {
		e.log.Errorf("Unable to verify TOTP")
		if err != nil {
			return "", fmt.Errorf("%w: %v", perrors.ErrVerificationMismatch, err)
		}
		return "", perrors.ErrVerificationMismatch
	}

	e.log.Debugf("Generated code valid for another %s", e.Remaining(now))
	return code, nil
}

// Remaining returns how long the code for now stays valid.
func (e *Engine) Remaining(now time.Time) time.Duration {
	period := time.Duration(e.opts.Period) * time.Second
	elapsed := time.Duration(now.UnixNano()) % period
	if elapsed < 0 {
		elapsed += period
	}
	return period - elapsed
}

// normalizeSeed drops the spaces and dashes providers use to group seeds for display.
func normalizeSeed(seed string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, seed)
}
