package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenLifetimeHours: 24,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Run("rejects short secrets", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.JWTSecret = "too-short"
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.TokenLifetimeHours = 0
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTServiceValidateToken(t *testing.T) {
	t.Run("garbage token is invalid", func(t *testing.T) {
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is invalid", func(t *testing.T) {
		issuer, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "ffffffffffffffffffffffffffffffff"
		verifier, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := issuer.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		_, err = verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is reported as expired", func(t *testing.T) {
		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		impl := svc.(*hmacJWTService)
		issued := time.Now().UTC()
		impl.timeNow = func() time.Time { return issued }

		token, err := svc.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		impl.timeNow = func() time.Time { return issued.Add(25 * time.Hour) }
		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestBcryptVerifier(t *testing.T) {
	// Minimum cost keeps the test fast.
	verifier := NewBcryptVerifier(4)

	hashed, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
	assert.ErrorIs(t, verifier.Compare(hashed, "wrong password"), ErrPasswordMismatch)
}
