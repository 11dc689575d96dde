package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dine24/dine24-api/internal/auth"
)

// Authenticator checks a bearer token
type Authenticator interface {
	Authenticate(token string) (*auth.Session, error)
}

// BearerToken returns the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// AdminAuth middleware requires a valid admin token and stores the session in
// the request context
func AdminAuth(authn Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, http.StatusUnauthorized, "Unauthorized: admin token required")
				return
			}

			session, err := authn.Authenticate(token)
			if err != nil {
				msg := "Unauthorized: invalid or expired token"
				if errors.Is(err, auth.ErrRevokedToken) {
					msg = "Unauthorized: session has been logged out"
				}
				unauthorized(w, http.StatusUnauthorized, msg)
				return
			}

			if session.Role != auth.RoleAdmin {
				unauthorized(w, http.StatusForbidden, "Forbidden: admin access required")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func unauthorized(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="dine24-admin"`)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
