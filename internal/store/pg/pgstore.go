package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dtiestoque.org/internal/auth"
	"dtiestoque.org/internal/inventory"
)

// DefaultConnLimit mirrors the pool size the panel has always run with.
const DefaultConnLimit = 10

// Store persists users and equipment in PostgreSQL.
type Store struct {
	db *sql.DB
}

var (
	_ auth.UserStore  = (*Store)(nil)
	_ inventory.Store = (*Store)(nil)
)

// Open creates a pooled connection. maxConns <= 0 falls back to DefaultConnLimit.
func Open(dsn string, maxConns int) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("pg: empty dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: open: %w", err)
	}
	if maxConns <= 0 {
		maxConns = DefaultConnLimit
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping checks that the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
