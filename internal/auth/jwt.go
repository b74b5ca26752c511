// Package auth issues and checks bearer tokens, hashes passwords and guards
// routes that need an identified caller.
//
// A token is an HS256 JWT whose subject is the user ID and which also carries
// the role. The middleware still loads the user on every request: a reset
// wipes the users, so a well-signed token can name an identity that no
// longer exists.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sakif/collabhub/internal/model"
)

const issuer = "collabhub"

// DefaultTokenTTL is seven days.
const DefaultTokenTTL = 7 * 24 * time.Hour

// minSecretLen guards against a placeholder secret slipping into a deploy.
const minSecretLen = 16

// TokenService signs and verifies tokens with one shared HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) (*TokenService, error) {
	return NewTokenServiceWithTTL(secret, DefaultTokenTTL)
}

func NewTokenServiceWithTTL(secret string, ttl time.Duration) (*TokenService, error) {
	switch {
	case len(secret) < minSecretLen:
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLen)
	case ttl <= 0:
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Claims adds the role to the registered claims. The jti is a random UUID so
// two logins in the same second still get distinct tokens.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

// Generate issues a token for user valid for the service TTL.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, s.ttl)
}

// GenerateWithDuration issues a token valid for d. A negative d yields a token
// that is already expired.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("auth: cannot issue a token without a user ID")
	}

	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm, issuer and expiry and returns the
// claims. Tokens without an exp or a subject are rejected.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errors.New("auth: token expired")
	case err != nil:
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	case !token.Valid:
		return nil, errors.New("auth: invalid token claims")
	case claims.Subject == "":
		return nil, errors.New("auth: token has no subject")
	}
	return claims, nil
}
