package workflows

import (
	"context"

	"github.com/PolarWolf314/passman/internal/vault"
)

// List returns the vendors with a record of type t under accountHome, sorted.
//
// Returns ErrNotFound if the account directory does not exist.
func (s *Service) List(ctx context.Context, accountHome string, t vault.SecretType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.List(accountHome, t)
}

// Accounts returns the accounts stored under cryptHome, sorted.
func (s *Service) Accounts(ctx context.Context, cryptHome string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Accounts(cryptHome)
}
