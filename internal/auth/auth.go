// Package auth issues and checks admin session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	RoleAdmin       = "admin"
	issuer          = "dine24"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRevokedToken       = errors.New("token has been revoked")
)

// Session is an authenticated admin
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Config configures a Manager
type Config struct {
	Username     string
	PasswordHash string
	Secret       string
	TTL          time.Duration
}

// Manager logs the admin in and out using signed tokens.
// Logged out token ids are remembered until they would have expired.
type Manager struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &Manager{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.Secret),
		ttl:          cfg.TTL,
		now:          time.Now,
		revoked:      make(map[string]time.Time),
	}
}

// HashPassword returns a bcrypt hash suitable for Config.PasswordHash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials and returns a signed token
func (m *Manager) Login(username, password string) (string, *Session, error) {
	if username != m.username {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := m.now()
	session := &Session{
		Username:  username,
		Role:      RoleAdmin,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, session, nil
}

// Authenticate parses a token and returns its session
func (m *Manager) Authenticate(token string) (*Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	_, revoked := m.revoked[c.ID]
	m.mu.Unlock()
	if revoked {
		return nil, ErrRevokedToken
	}

	return &Session{
		Username:  c.Subject,
		Role:      c.Role,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Logout revokes the token. Revoking an already invalid token is an error.
func (m *Manager) Logout(token string) error {
	session, err := m.Authenticate(token)
	if err != nil {
		return err
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	m.revoked[session.TokenID] = session.ExpiresAt
	return nil
}

type sessionKey struct{}

// WithSession stores the session in ctx
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
