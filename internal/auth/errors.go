package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("auth: email and password are required")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrInvalidSecret      = errors.New("auth: invalid password")
	ErrDuplicateEmail     = errors.New("auth: email already registered")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrStorageUnavailable = errors.New("auth: storage unavailable")
)

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("auth: invalid token")
