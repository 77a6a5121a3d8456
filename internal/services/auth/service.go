// Package auth verifies bearer tokens and carries the authenticated user
// through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ternarybob/arbor"
)

var (
	// ErrMissingToken is returned when no bearer token is present
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
	ErrInvalidToken = errors.New("invalid token")
)

// Service verifies HS256 JWTs whose "sub" claim is the user ID. A Service
// with no secret is disabled and treats every request as anonymous.
type Service struct {
	secret []byte
	logger arbor.ILogger
}

// NewService creates a token service. An empty secret disables verification.
func NewService(secret string, logger arbor.ILogger) *Service {
	if secret == "" {
		logger.Info().Msg("JWT secret not set - requests are anonymous and history is unavailable")
	}
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// Enabled reports whether tokens are verified
func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// Authenticate extracts and verifies the bearer token of r and returns the
// subject, which is empty for anonymous tokens. ErrMissingToken is returned when r carries no token.
func (s *Service) Authenticate(r *http.Request) (string, error) {
	token := BearerToken(r)
	if token == "" {
		return "", ErrMissingToken
	}
	return s.Verify(token)
}

// Verify parses a token and returns its subject. A validly signed token
// without a subject, such as a project anon key, yields "" and no error.
func (s *Service) Verify(token string) (string, error) {
	if !s.Enabled() {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return subject, nil
}

// Sign issues an HS256 token for subject valid for ttl
func (s *Service) Sign(subject string, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// BearerToken returns the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID, or "" for anonymous requests
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}
