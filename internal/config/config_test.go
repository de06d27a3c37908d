package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ESTOQUE_AUTH_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3000" || cfg.DBConnLimit != 10 || cfg.TokenTTL != 8*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.InMemory() {
		t.Fatal("expected in-memory mode without a DSN")
	}
	if cfg.MaxBodyBytes != 1<<20 || cfg.LogLevel != "info" || cfg.AutoMigrate {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ESTOQUE_AUTH_SECRET", " s3cret ")
	t.Setenv("ESTOQUE_PG_DSN", "postgres://u:p@db:5432/estoque")
	t.Setenv("ESTOQUE_DB_CONN_LIMIT", "4")
	t.Setenv("ESTOQUE_TOKEN_TTL", "30m")
	t.Setenv("ESTOQUE_CORS_ORIGINS", "http://localhost:5173,https://estoque.dti")
	t.Setenv("ESTOQUE_AUTO_MIGRATE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthSecret != "s3cret" || cfg.InMemory() || cfg.DBConnLimit != 4 || cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://estoque.dti" || !cfg.AutoMigrate {
		t.Fatalf("unexpected list parsing: %+v", cfg)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("ESTOQUE_AUTH_SECRET", "")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ESTOQUE_AUTH_SECRET") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("ESTOQUE_AUTH_SECRET", "x")
	t.Setenv("ESTOQUE_TOKEN_TTL", "forever")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := Config{AuthSecret: "x", TokenTTL: time.Hour, DBConnLimit: 1, RateBurst: 1, RatePerSec: 1, MaxBodyBytes: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := base
	bad.DBConnLimit = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected pool size error")
	}
}
