package workflows

import (
	"time"

	"github.com/PolarWolf314/passman/internal/keyring"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/otp"
	"github.com/PolarWolf314/passman/internal/policy"
	"github.com/PolarWolf314/passman/internal/secrets"
	"github.com/PolarWolf314/passman/internal/vault"
)

// Deps are the components a Service is built from.
type Deps struct {
	Store    *vault.Store
	Engine   *secrets.Engine
	Provider keyring.Provider
	Policy   policy.Policy
	OTP      *otp.Engine
	Logger   logger.Logger

	// ExtraRecipients are added to the recipients of every write.
	ExtraRecipients keyring.RecipientSet

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the vault workflows.
type Service struct {
	store    *vault.Store
	engine   *secrets.Engine
	provider keyring.Provider
	policy   policy.Policy
	otp      *otp.Engine
	log      logger.Logger
	extra    keyring.RecipientSet
	now      func() time.Time
}

// New returns a Service using deps.
func New(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    deps.Store,
		engine:   deps.Engine,
		provider: deps.Provider,
		policy:   deps.Policy,
		otp:      deps.OTP,
		log:      deps.Logger,
		extra:    deps.ExtraRecipients,
		now:      now,
	}
}
