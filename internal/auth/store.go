package auth

import (
	"context"
	"strings"
	"sync"
)

// UserStore describes the credential store required by the auth subsystem.
type UserStore interface {
	// FindUserByEmail returns ErrUserNotFound when no row matches.
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	// CreateUser persists u (PasswordHash already set) and returns the new id.
	// A duplicate email yields ErrDuplicateEmail.
	CreateUser(ctx context.Context, u *User) (int64, error)
}

// MemoryUserStore keeps users in process memory. Used when no DSN is configured and in tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]User
}

var _ UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]User)}
}

func (s *MemoryUserStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, u *User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return 0, ErrDuplicateEmail
	}
	s.nextID++
	stored := *u
	stored.ID = s.nextID
	stored.Email = key
	s.byEmail[key] = stored
	u.ID = stored.ID
	return stored.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
