package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundtrip(t *testing.T) {
	token, err := SignToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	userID, err := VerifyToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := SignToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", token)
	require.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := SignToken(testSecret, "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token)
	require.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	var seenUserID string
	handler := AuthRequired(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := SignToken(testSecret, "user-7", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-7", seenUserID)
	})
}
