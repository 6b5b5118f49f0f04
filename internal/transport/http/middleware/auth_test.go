package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-auth-api/internal/config"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

// echoUserID writes the user id extracted from the context claims.
func echoUserID(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "no claims", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(claims.UserID))
}

func TestAuth_NoToken(t *testing.T) {
	p := newTestProvider(t)
	r := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
	rr := httptest.NewRecorder()

	Auth(p)(http.HandlerFunc(echoUserID)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_CookieToken(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()

	Auth(p)(http.HandlerFunc(echoUserID)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", rr.Body.String())
}

func TestAuth_BearerFallback(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u2")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	Auth(p)(http.HandlerFunc(echoUserID)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u2", rr.Body.String())
}

func TestAuth_TamperedToken(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token + "x"})
	rr := httptest.NewRecorder()

	Auth(p)(http.HandlerFunc(echoUserID)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute})
	require.NoError(t, err)
	token, err := expired.Sign("u1")
	require.NoError(t, err)

	p := newTestProvider(t)
	r := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: token})
	rr := httptest.NewRecorder()

	Auth(p)(http.HandlerFunc(echoUserID)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
