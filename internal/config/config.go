package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration read from ESTOQUE_* variables.
type Config struct {
	HTTPAddr        string        `env:"ESTOQUE_HTTP_ADDR"         envDefault:":3000"`
	PGDSN           string        `env:"ESTOQUE_PG_DSN"`
	DBConnLimit     int           `env:"ESTOQUE_DB_CONN_LIMIT"     envDefault:"10"`
	AuthSecret      string        `env:"ESTOQUE_AUTH_SECRET"`
	AuthIssuer      string        `env:"ESTOQUE_AUTH_ISSUER"       envDefault:"dti-estoque"`
	TokenTTL        time.Duration `env:"ESTOQUE_TOKEN_TTL"         envDefault:"8h"`
	RateBurst       int           `env:"ESTOQUE_RATE_BURST"        envDefault:"20"`
	RatePerSec      float64       `env:"ESTOQUE_RATE_PER_SEC"      envDefault:"10"`
	MaxBodyBytes    int64         `env:"ESTOQUE_MAX_BODY_BYTES"    envDefault:"1048576"`
	CORSOrigins     []string      `env:"ESTOQUE_CORS_ORIGINS"      envSeparator:","`
	ShutdownTimeout time.Duration `env:"ESTOQUE_SHUTDOWN_TIMEOUT"  envDefault:"10s"`
	AutoMigrate     bool          `env:"ESTOQUE_AUTO_MIGRATE"      envDefault:"false"`
	LogLevel        string        `env:"ESTOQUE_LOG_LEVEL"         envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AuthSecret = strings.TrimSpace(cfg.AuthSecret)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.AuthSecret == "":
		return errors.New("config: ESTOQUE_AUTH_SECRET is required")
	case c.TokenTTL <= 0:
		return errors.New("config: ESTOQUE_TOKEN_TTL must be positive")
	case c.DBConnLimit <= 0:
		return errors.New("config: ESTOQUE_DB_CONN_LIMIT must be positive")
	case c.RateBurst <= 0 || c.RatePerSec <= 0:
		return errors.New("config: rate limit settings must be positive")
	case c.MaxBodyBytes <= 0:
		return errors.New("config: ESTOQUE_MAX_BODY_BYTES must be positive")
	}
	return nil
}

// InMemory reports whether no database is configured.
func (c Config) InMemory() bool { return strings.TrimSpace(c.PGDSN) == "" }
