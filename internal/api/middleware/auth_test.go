package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/mocks"
	"github.com/studyhall/studyhall-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	okHandler := func(t *testing.T, sawUserID *uuid.UUID) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetUserID(r)
			require.True(t, ok)
			*sawUserID = id
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid token passes through with user ID", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{
			Claims: &auth.Claims{UserID: userID, TokenType: auth.TokenTypeAccess},
		})

		var sawUserID uuid.UUID
		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		rr := httptest.NewRecorder()
		mw.Authenticate(okHandler(t, &sawUserID)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, sawUserID)
	})

	t.Run("missing header yields 401", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{})

		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		rr := httptest.NewRecorder()
		mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header yields 401", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{})

		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		req.Header.Set("Authorization", "sometoken")
		rr := httptest.NewRecorder()
		mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token yields 401 with expired message", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrExpiredToken})

		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rr := httptest.NewRecorder()
		mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Token expired")
	})

	t.Run("refresh token rejected on access routes", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrWrongTokenType})

		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		req.Header.Set("Authorization", "Bearer refreshtoken")
		rr := httptest.NewRecorder()
		mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid token")
	})

	t.Run("unexpected validation failure yields 500", func(t *testing.T) {
		t.Parallel()

		mw := NewAuthMiddleware(&mocks.MockJWTService{Err: assert.AnError})

		req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		rr := httptest.NewRecorder()
		mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
