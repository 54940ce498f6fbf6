package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.StoreDriver)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("expected 5s store timeout, got %v", cfg.StoreTimeout)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.GenericLoginErrors {
		t.Errorf("expected distinct login errors by default")
	}
	if len(cfg.CORSAllowOrigins) != 1 || cfg.CORSAllowOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowOrigins)
	}
	if cfg.Redis.Enabled {
		t.Errorf("expected redis cache disabled by default")
	}
	if cfg.Redis.CacheTTL != 15*time.Minute {
		t.Errorf("expected 15m cache ttl, got %v", cfg.Redis.CacheTTL)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(envconfig.MapLookuper(map[string]string{
		"PORT":                 "8081",
		"STORE_DRIVER":         "postgres",
		"POSTGRES_DSN":         "postgres://u:p@db:5432/x",
		"GENERIC_LOGIN_ERRORS": "true",
		"CORS_ALLOW_ORIGINS":   "https://a.example,https://b.example",
		"REDIS_ENABLED":        "true",
		"ACCOUNT_CACHE_TTL":    "1m",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8081" || cfg.StoreDriver != "postgres" || cfg.Postgres.DSN != "postgres://u:p@db:5432/x" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.GenericLoginErrors || !cfg.Redis.Enabled || cfg.Redis.CacheTTL != time.Minute {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if len(cfg.CORSAllowOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowOrigins)
	}
}

func TestLoadWith_UnknownDriver(t *testing.T) {
	if _, err := LoadWith(envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "cassandra"})); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
