package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("secret", nil)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token := signHS256(t, "secret", jwt.MapClaims{
			"sub": "user-1", "email": "a@b.com", "exp": time.Now().Add(time.Hour).Unix(),
		})
		id, email, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
		assert.Equal(t, "a@b.com", email)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signHS256(t, "other", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
		_, _, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		token := signHS256(t, "secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Minute).Unix()})
		_, _, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signHS256(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		_, _, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})
}

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"user-9","email":"x@y.com"}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, "anon", srv.Client())

	id, email, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
	assert.Equal(t, "x@y.com", email)

	_, _, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
