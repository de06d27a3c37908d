package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service authenticates users against the credential store and issues session tokens.
type Service struct {
	users  UserStore
	issuer *Issuer
}

// NewService wires a credential store and a token issuer.
func NewService(users UserStore, issuer *Issuer) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	if issuer == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	return &Service{users: users, issuer: issuer}, nil
}

// Login verifies email and password and returns a signed session.
// Failures are terminal for the request: ErrMissingCredentials, ErrUserNotFound,
// ErrInvalidSecret or ErrStorageUnavailable.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrUserNotFound
		}
		return Session{}, storageError(err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidSecret
	}

	token, exp, err := s.issuer.Issue(*user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: user.Public()}, nil
}

// Register hashes the password and persists a new user, returning its id.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	switch {
	case name == "":
		return 0, fmt.Errorf("%w: nome is required", ErrInvalidInput)
	case email == "":
		return 0, fmt.Errorf("%w: email is required", ErrInvalidInput)
	case req.Password == "":
		return 0, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	perm := strings.TrimSpace(req.Permission)
	if perm == "" {
		perm = DefaultPermission
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return 0, err
	}
	id, err := s.users.CreateUser(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Permission:   perm,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return 0, ErrDuplicateEmail
		}
		return 0, storageError(err)
	}
	return id, nil
}

// AuthenticateToken validates a bearer token and returns its claims.
func (s *Service) AuthenticateToken(token string) (*Claims, error) {
	return s.issuer.Verify(token)
}

func storageError(err error) error {
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
