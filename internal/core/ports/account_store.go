package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// AccountStore is the durable home of Account records.
//
// Insert must arbitrate concurrent inserts of the same email atomically: exactly
// one succeeds and the others fail with domain.ErrEmailExists.
type AccountStore interface {
	// Initialize ensures the users table/collection and its unique email
	// constraint exist. It is safe to call on every start.
	Initialize(ctx context.Context) error
	Insert(ctx context.Context, name, email, passwordHash string) (string, error)
	// FindByEmail returns domain.ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// HealthChecker is implemented by dependencies the readiness probe pings.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
