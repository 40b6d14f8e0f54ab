package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16"

func TestTokenService(t *testing.T) {
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("round trips the identity id", func(t *testing.T) {
		tok, err := tokens.Generate("user-42")
		require.NoError(t, err)

		id, err := tokens.Validate(tok)

		require.NoError(t, err)
		assert.Equal(t, "user-42", id)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tok, err := tokens.GenerateWithDuration("user-42", -time.Minute)
		require.NoError(t, err)

		_, err = tokens.Validate(tok)

		assert.EqualError(t, err, "auth: token expired")
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other, err := NewTokenService("another-secret-0123456", time.Hour)
		require.NoError(t, err)
		tok, err := other.Generate("user-42")
		require.NoError(t, err)

		_, err = tokens.Validate(tok)

		assert.Error(t, err)
	})

	t.Run("rejects the none algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Validate(tok)

		assert.Error(t, err)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := NewTokenService("short", time.Hour)
		assert.Error(t, err)
	})
}

func TestRequireAuth(t *testing.T) {
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	var seen string
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("passes the identity id to the next handler", func(t *testing.T) {
		tok, err := tokens.Generate("user-42")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user-42", seen)
	})

	t.Run("rejects a missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("rejects a garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGitHubProvider_AuthURL(t *testing.T) {
	p := NewGitHubProvider("client-id", "secret", "http://localhost:8080/auth/github/callback")

	u := p.AuthURL("state-123")

	assert.Contains(t, u, "https://github.com/login/oauth/authorize")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "scope=read%3Auser+user%3Aemail")
}
