package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// decoyPassword is hashed once so that logins for unknown emails pay the same
// verification cost as logins for known ones.
const decoyPassword = "decoy-password-for-missing-accounts"

// AccountService implements registration and credential verification. It holds
// no per-request state and is safe for concurrent use.
type AccountService struct {
	store  ports.AccountStore
	hasher ports.PasswordHasher
	log    zerolog.Logger

	decoyMu   sync.Mutex
	decoyHash string
}

// NewAccountService prepares the decoy hash up front. If that fails it is
// retried on the next login for an unknown email.
func NewAccountService(store ports.AccountStore, hasher ports.PasswordHasher, log zerolog.Logger) *AccountService {
	s := &AccountService{store: store, hasher: hasher, log: log}
	s.decoy()
	return s
}

// Register hashes the password and inserts a new account. It returns
// domain.ErrMissingFields when any input is blank and domain.ErrEmailExists
// when the email is already taken.
func (s *AccountService) Register(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return domain.ErrMissingFields
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return err
		}
		return fmt.Errorf("register: hash password: %w", err)
	}

	id, err := s.store.Insert(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			s.log.Debug().Str("email", email).Msg("registration rejected, email taken")
			return err
		}
		s.log.Error().Err(err).Msg("failed to insert account")
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", id).Msg("account registered")
	return nil
}

// Authenticate verifies password against the stored hash for email and returns
// the account profile on success.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Profile, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.decoy())
			return nil, err
		}
		s.log.Error().Err(err).Msg("failed to look up account")
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Debug().Str("account_id", account.ID).Msg("password mismatch")
		return nil, domain.ErrInvalidPassword
	}

	profile := account.Profile()
	return &profile, nil
}

func (s *AccountService) decoy() string {
	s.decoyMu.Lock()
	defer s.decoyMu.Unlock()

	if s.decoyHash == "" {
		hash, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare decoy hash")
			return ""
		}
		s.decoyHash = hash
	}
	return s.decoyHash
}
