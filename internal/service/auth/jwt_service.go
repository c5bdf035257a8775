package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskpilot/internal/config"
)

// Token validation errors.
var (
	// ErrInvalidToken indicates the token is malformed, unsigned with
	// the expected key, or carries an unusable subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's lifetime has passed.
	ErrExpiredToken = errors.New("token expired")
)

// JWTService issues and validates the bearer tokens the API uses to
// identify users.
type JWTService interface {
	// GenerateToken issues a signed token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies a token and returns the user it identifies.
	ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// hmacJWTService implements JWTService with HMAC-SHA256 signing.
type hmacJWTService struct {
	secret   []byte
	lifetime time.Duration
	// timeNow is injectable for expiry tests.
	timeNow func() time.Time
}

// NewJWTService creates a JWTService from the auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
	}
	if cfg.TokenLifetimeHours <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}

	return &hmacJWTService{
		secret:   []byte(cfg.JWTSecret),
		lifetime: time.Duration(cfg.TokenLifetimeHours) * time.Hour,
		timeNow:  time.Now,
	}, nil
}

// GenerateToken implements JWTService.
func (s *hmacJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	now := s.timeNow().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements JWTService.
func (s *hmacJWTService) ValidateToken(_ context.Context, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.timeNow() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject: %v", ErrInvalidToken, err)
	}
	return userID, nil
}
