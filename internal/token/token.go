// Package token issues and validates the signed bearer tokens that carry a
// username as their subject. Tokens are not persisted; validity is a pure
// function of signature and expiry.
package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"artschool-backend/pkg/apierror"
)

type Service struct {
	secret []byte
}

// New constructs a Service around the process-wide signing key. The key is
// loaded once from config at startup and is immutable afterwards.
func New(secret string) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}

	return &Service{secret: []byte(secret)}, nil
}

// Issue signs a token for subject expiring at now + ttl. TTL is mandatory;
// a zero or negative TTL produces a token that is already expired.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate returns the embedded subject. Malformed tokens, bad signatures,
// wrong signing methods, and expired tokens all fail with the same
// Unauthorized error so callers cannot distinguish the cause.
func (s *Service) Validate(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", apierror.Unauthorized("invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apierror.Unauthorized("invalid token claims")
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", apierror.Unauthorized("invalid token subject")
	}

	return subject, nil
}
