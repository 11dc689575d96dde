package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("royal-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewManager(Config{Username: "admin", PasswordHash: string(hash), Secret: "test-signing-key"})
}

func TestManager_Login(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "admin", "royal-secret", nil},
		{"wrong password", "admin", "nope", ErrInvalidCredentials},
		{"wrong user", "root", "royal-secret", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, session, err := m.Login(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, RoleAdmin, session.Role)
			assert.NotEmpty(t, session.TokenID)
		})
	}
}

func TestManager_LoginLogoutLifecycle(t *testing.T) {
	m := newTestManager(t)

	token, issued, err := m.Login("admin", "royal-secret")
	require.NoError(t, err)

	session, err := m.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, issued.TokenID, session.TokenID)

	require.NoError(t, m.Logout(token))

	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, ErrRevokedToken)
	assert.ErrorIs(t, m.Logout(token), ErrRevokedToken)

	// a fresh login is unaffected
	second, _, err := m.Login("admin", "royal-secret")
	require.NoError(t, err)
	_, err = m.Authenticate(second)
	assert.NoError(t, err)
}

func TestManager_AuthenticateRejects(t *testing.T) {
	m := newTestManager(t)
	token, _, err := m.Login("admin", "royal-secret")
	require.NoError(t, err)

	other := newTestManager(t)
	other.secret = []byte("another-key")

	_, err = other.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Authenticate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{Username: "admin"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", s.Username)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))
}
