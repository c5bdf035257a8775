package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/config"
	"taskpilot/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenLifetimeHours: 1,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticate(t *testing.T) {
	jwtService := newTestJWTService(t)
	mw := NewAuthMiddleware(jwtService)

	var gotUserID uuid.UUID
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token passes the user ID through", func(t *testing.T) {
		called = false
		userID := uuid.New()
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}
