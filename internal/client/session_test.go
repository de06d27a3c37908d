package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Session{API: "http://localhost:3000", Token: "tok", ExpiresAt: exp, User: User{Name: "Ana", Email: "ana@dti.br"}}

	require.NoError(t, SaveSession(path, in))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, in.API, out.API)
	assert.Equal(t, in.Token, out.Token)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
	assert.Equal(t, in.User, out.User)

	require.NoError(t, ClearSession(path))
	_, err = LoadSession(path)
	assert.True(t, errors.Is(err, ErrNoSession))
	assert.NoError(t, ClearSession(path), "clearing twice is fine")
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{Token: "t", ExpiresAt: now.Add(time.Hour)}.Expired(now))
	assert.True(t, Session{Token: "t", ExpiresAt: now}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(time.Hour)}.Expired(now))
}
