package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

const defaultCacheTTL = 15 * time.Minute

// AccountCache is a read-through cache in front of another AccountStore.
// Accounts are never modified after creation, so a cached entry cannot go
// stale. Only hits are cached; a miss always reaches the backing store so a
// fresh registration is immediately visible. Concurrent misses for the same
// email share one store lookup.
//
// Key format: account:email:<email>
type AccountCache struct {
	next   ports.AccountStore
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
	group  singleflight.Group
}

func NewAccountCache(next ports.AccountStore, client *redis.Client, ttl time.Duration, log zerolog.Logger) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{next: next, client: client, ttl: ttl, log: log}
}

type cachedAccount struct {
	ID           string `redis:"id"`
	Name         string `redis:"name"`
	Email        string `redis:"email"`
	PasswordHash string `redis:"password"`
}

func (c *AccountCache) Initialize(ctx context.Context) error {
	return c.next.Initialize(ctx)
}

func (c *AccountCache) Insert(ctx context.Context, name, email, passwordHash string) (string, error) {
	id, err := c.next.Insert(ctx, name, email, passwordHash)
	if err != nil {
		return "", err
	}
	c.store(ctx, &domain.Account{ID: id, Name: name, Email: email, PasswordHash: passwordHash})
	return id, nil
}

// FindByEmail serves from Redis when possible. Cache errors are logged and
// the lookup falls through to the backing store.
func (c *AccountCache) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var cached cachedAccount
	cmd := c.client.HGetAll(ctx, c.key(email))
	switch {
	case cmd.Err() != nil:
		c.log.Warn().Err(cmd.Err()).Msg("account cache read failed, using store")
	case len(cmd.Val()) > 0:
		if err := cmd.Scan(&cached); err == nil && cached.ID != "" {
			return &domain.Account{
				ID:           cached.ID,
				Name:         cached.Name,
				Email:        cached.Email,
				PasswordHash: cached.PasswordHash,
			}, nil
		}
	}

	// The shared lookup outlives any single caller; the store bounds it with
	// its own timeout.
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(email, func() (interface{}, error) {
		account, err := c.next.FindByEmail(lookupCtx, email)
		if err != nil {
			return nil, err
		}
		c.store(lookupCtx, account)
		return account, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		account := *res.Val.(*domain.Account)
		return &account, nil
	}
}

// Ping checks Redis connectivity for the readiness probe.
func (c *AccountCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *AccountCache) store(ctx context.Context, a *domain.Account) {
	key := c.key(a.Email)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cachedAccount{
			ID:           a.ID,
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
		})
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("account_id", a.ID).Msg("account cache write failed")
	}
}

func (c *AccountCache) key(email string) string {
	return fmt.Sprintf("account:email:%s", email)
}
