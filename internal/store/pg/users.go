package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dtiestoque.org/internal/auth"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx, `
		select id, nome, email, senha, permissao
		from usuarios
		where email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Permission)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", auth.ErrStorageUnavailable, err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		insert into usuarios (nome, email, senha, permissao)
		values ($1, $2, $3, $4)
		returning id
	`, u.Name, u.Email, u.PasswordHash, u.Permission).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, auth.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("%w: create user: %w", auth.ErrStorageUnavailable, err)
	}
	u.ID = id
	return id, nil
}
