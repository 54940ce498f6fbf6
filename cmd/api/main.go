package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/api"
	"github.com/userhub/account-service/internal/core/ports"
	"github.com/userhub/account-service/internal/core/service"
	"github.com/userhub/account-service/internal/infrastructure/auth"
	"github.com/userhub/account-service/internal/infrastructure/config"
	mongodb "github.com/userhub/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/account-service/internal/infrastructure/db/redis"
	"github.com/userhub/account-service/internal/infrastructure/db/sqlstore"
	"github.com/userhub/account-service/pkg/logger"
)

const (
	migrationTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// @title        Account Service API
// @version      1.0
// @description  Account registration and credential verification.
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "account-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("account service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// The schema must exist before the first request is accepted.
	initCtx, cancel := context.WithTimeout(ctx, migrationTimeout)
	err = store.Initialize(initCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.StoreDriver, err)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("credential store ready")

	checks := map[string]ports.HealthChecker{"store": store}
	var accounts ports.AccountStore = store

	if cfg.Redis.Enabled {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		cache := redisdb.NewAccountCache(store, client, cfg.Redis.CacheTTL, log)
		accounts = cache
		checks["redis"] = cache
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("account cache enabled")
	}

	svc := service.NewAccountService(
		accounts,
		auth.NewBcryptHasher(cfg.BcryptCost),
		log.With().Str("component", "accounts").Logger(),
	)

	e := api.NewRouter(api.Options{
		Service:            svc,
		Checks:             checks,
		Log:                log,
		GenericLoginErrors: cfg.GenericLoginErrors,
		AllowOrigins:       cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type healthyStore interface {
	ports.AccountStore
	ports.HealthChecker
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (healthyStore, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "account-service",
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongodb.NewAccountStore(db, cfg.StoreTimeout), closeFn, nil

	default:
		dialect, err := sqlstore.ParseDialect(cfg.StoreDriver)
		if err != nil {
			return nil, nil, err
		}
		dsn := cfg.SQLite.Path
		if dialect == sqlstore.Postgres {
			dsn = cfg.Postgres.DSN
		}
		db, err := sqlstore.Open(ctx, sqlstore.Config{Dialect: dialect, DSN: dsn, Timeout: cfg.StoreTimeout})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = db.Close() }
		return sqlstore.NewAccountStore(db, dialect, cfg.StoreTimeout, log), closeFn, nil
	}
}
