package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmarin/portfolio-be/internal/models"
)

// TokenHeader is the legacy header the admin UI sends its credential in.
// A standard Authorization: Bearer header is also accepted.
const TokenHeader = "X-Auth-Token"

// Claims defines the JWT claims structure.
type Claims struct {
	ProfileID string `json:"profileId"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// ProfileChecker confirms that a profile id still exists. Tokens for
// deleted profiles must not be honored.
type ProfileChecker interface {
	ProfileExists(id string) (bool, error)
}

// Manager issues and validates tokens for the admin profile.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token Manager with the given signing secret and
// token lifetime.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Generate creates a new JWT for the given profile.
func (m *Manager) Generate(profile models.Profile) (string, error) {
	expirationTime := time.Now().Add(m.ttl)
	claims := &Claims{
		ProfileID: profile.ID,
		Username:  profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates a JWT string.
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware protects routes: it resolves the request's token to the admin
// identity or fails closed with 401.
func (m *Manager) Middleware(profiles ProfileChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Try the legacy X-Auth-Token header
			tokenStr := r.Header.Get(TokenHeader)

			// 2. Fall back to Authorization: Bearer
			if tokenStr == "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader != "" {
					parts := strings.Split(authHeader, "Bearer ")
					if len(parts) == 2 {
						tokenStr = parts[1]
					}
				}
			}

			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			claims, err := m.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			// The token must reference a profile that still exists. A
			// lookup failure is a persistence problem, not an auth
			// rejection.
			exists, err := profiles.ProfileExists(claims.ProfileID)
			if err != nil {
				http.Error(w, "Could not verify auth token", http.StatusServiceUnavailable)
				return
			}
			if !exists {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the authenticated claims set by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}
