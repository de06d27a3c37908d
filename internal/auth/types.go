package auth

import "time"

// DefaultPermission is stored when registration does not name one.
const DefaultPermission = "usuario"

// User is a row of the credential store. PasswordHash is always a bcrypt hash.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Permission   string
}

// PublicUser is the subset of a user that is safe to hand back to clients.
type PublicUser struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// Public strips the credential fields.
func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email}
}

// RegisterRequest carries the administrative registration input.
type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Permission string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}
