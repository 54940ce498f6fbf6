package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

type AccountService interface {
	Register(ctx context.Context, name, email, password string) error
	Authenticate(ctx context.Context, email, password string) (*domain.Profile, error)
}
