package devserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moncraft/portal/internal/client/models"
)

type contextKey string

const userContextKey contextKey = "user"

// mintToken issues a signed bearer token for the user.
func (s *Server) mintToken(u *models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"is_admin": u.IsAdmin,
		"exp":      s.now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// userFromToken resolves a bearer token back to a stored user.
func (s *Server) userFromToken(tokenString string) (*models.Identity, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	id, _ := claims["user_id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// requireAuth enforces the bearer credential and stores the resolved user in
// the request context. Invalid, expired, or orphaned tokens yield 401, which
// the client gateway treats as the signal to end the session.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		u, ok := s.userFromToken(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, u)))
	})
}

// requireAdmin must run after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil || !u.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *models.Identity {
	u, _ := r.Context().Value(userContextKey).(*models.Identity)
	return u
}

// ExpiredTokenForTests mints a token that is already expired, for exercising
// the client's forced-logout path.
func (s *Server) ExpiredTokenForTests(username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  "gone",
		"username": username,
		"is_admin": false,
		"exp":      s.now().Add(-time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
