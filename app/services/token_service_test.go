package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-0123456789-0123456789-01"
	testRefreshSecret = "refresh-secret-0123456789-0123456789-0"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, refreshTTL, "nuvylux", "nuvylux-api", testAccessSecret, testRefreshSecret)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsBadSecrets(t *testing.T) {
	_, err := NewTokenService(time.Minute, time.Hour, "i", "a", "", testRefreshSecret)
	assert.Error(t, err)

	_, err = NewTokenService(time.Minute, time.Hour, "i", "a", testAccessSecret, "")
	assert.Error(t, err)

	_, err = NewTokenService(time.Minute, time.Hour, "i", "a", testAccessSecret, testAccessSecret)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 30*24*time.Hour)

	token, err := svc.GenerateAccessToken(42, "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 30*24*time.Hour)

	token, err := svc.GenerateRefreshToken(42, "jane@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenTypeCrossUseRejected(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 30*24*time.Hour)

	accessToken, err := svc.GenerateAccessToken(1, "jane@example.com")
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(1, "jane@example.com")
	require.NoError(t, err)

	// Tokens are signed with different secrets, so cross-validation fails
	// at the signature check before the type check.
	_, err = svc.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute, -time.Minute)

	accessToken, err := svc.GenerateAccessToken(1, "jane@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRefreshTokenIgnoreExpiry(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, -time.Minute)

	refreshToken, err := svc.GenerateRefreshToken(7, "jane@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(refreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	claims, err := svc.ParseRefreshTokenIgnoreExpiry(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute, 30*24*time.Hour)

	token, err := svc.GenerateAccessToken(1, "jane@example.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
