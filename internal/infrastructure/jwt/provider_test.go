package jwtinfra

import (
	"testing"
	"time"

	"github.com/go-auth-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry})
	require.NoError(t, err)
	return p
}

func TestNewProvider_EmptySecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTSecret: ""})
	require.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Minute)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Tampered(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	_, err = p.Verify(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_WrongKey(t *testing.T) {
	p1 := newTestProvider(t, time.Hour)
	p2, err := NewProvider(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	token, err := p1.Sign("u1")
	require.NoError(t, err)

	_, err = p2.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
