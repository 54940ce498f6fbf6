package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/infrastructure/db/sqlstore/migrations"
)

// gooseMu guards goose's package-level dialect and filesystem settings.
var gooseMu sync.Mutex

// AccountStore implements ports.AccountStore on the users table.
type AccountStore struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
	log     zerolog.Logger

	insertQuery string
	findQuery   string
}

func NewAccountStore(db *sql.DB, dialect Dialect, timeout time.Duration, log zerolog.Logger) *AccountStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	p := dialect.placeholder
	return &AccountStore{
		db:      db,
		dialect: dialect,
		timeout: timeout,
		log:     log,
		insertQuery: fmt.Sprintf(
			`INSERT INTO users (name, email, password) VALUES (%s, %s, %s) RETURNING id`,
			p(1), p(2), p(3)),
		findQuery: fmt.Sprintf(
			`SELECT id, name, email, password FROM users WHERE email = %s`,
			p(1)),
	}
}

// Initialize applies pending migrations. Already-applied versions are skipped,
// and the table DDL itself is IF NOT EXISTS so a pre-existing users table is
// adopted as-is.
func (s *AccountStore) Initialize(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: s.log})
	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, string(s.dialect)); err != nil {
		return fmt.Errorf("migrate: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *AccountStore) Insert(ctx context.Context, name, email, passwordHash string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, s.insertQuery, name, email, passwordHash).Scan(&id)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return "", domain.ErrEmailExists
		}
		return "", fmt.Errorf("db error: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		id  int64
		acc domain.Account
	)
	err := s.db.QueryRowContext(ctx, s.findQuery, email).Scan(&id, &acc.Name, &acc.Email, &acc.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w: %w", domain.ErrStoreUnavailable, err)
	}
	acc.ID = strconv.FormatInt(id, 10)
	return &acc, nil
}

func (s *AccountStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// gooseLogger routes goose progress output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
