package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(fixedClock(fixedTime))

	first, err := svc.GenerateToken(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	r1, _, err := svc.GenerateRefreshToken(context.Background(), 1)
	require.NoError(t, err)
	r2, _, err := svc.GenerateRefreshToken(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(fixedClock(fixedTime))

	token, expiresAt, err := svc.GenerateRefreshToken(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, fixedTime.Add(7*24*time.Hour).Equal(expiresAt))

	claims, err := svc.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestExpiryBoundary(t *testing.T) {
	t.Parallel()

	issuer := NewTestJWTService(fixedClock(fixedTime))
	access, err := issuer.GenerateToken(context.Background(), 1)
	require.NoError(t, err)
	refresh, expiresAt, err := issuer.GenerateRefreshToken(context.Background(), 1)
	require.NoError(t, err)

	accessExpiry := fixedTime.Add(30 * time.Minute)

	justBefore := NewTestJWTService(fixedClock(accessExpiry.Add(-time.Second)))
	_, err = justBefore.ValidateToken(context.Background(), access)
	assert.NoError(t, err)

	atExpiry := NewTestJWTService(fixedClock(accessExpiry))
	_, err = atExpiry.ValidateToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrExpiredToken)

	refreshBefore := NewTestJWTService(fixedClock(expiresAt.Add(-time.Second)))
	_, err = refreshBefore.ValidateRefreshToken(context.Background(), refresh)
	assert.NoError(t, err)

	refreshAfter := NewTestJWTService(fixedClock(expiresAt.Add(time.Hour)))
	_, err = refreshAfter.ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(fixedClock(fixedTime))
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, 5)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(ctx, 5)
	require.NoError(t, err)

	otherCfg := DefaultJWTConfig()
	otherCfg.JWTSecret = "wrong-secret-that-is-long-enough-for-testing"
	other, err := NewJWTService(otherCfg, WithClock(fixedClock(fixedTime)))
	require.NoError(t, err)
	foreign, err := other.GenerateToken(ctx, 5)
	require.NoError(t, err)

	hs512Cfg := DefaultJWTConfig()
	hs512Cfg.SigningAlgorithm = "HS512"
	hs512, err := NewJWTService(hs512Cfg, WithClock(fixedClock(fixedTime)))
	require.NoError(t, err)
	otherAlg, err := hs512.GenerateToken(ctx, 5)
	require.NoError(t, err)

	sign := func(claims jwtCustomClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSecret))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(fixedTime.Add(time.Hour))
	nonNumericSubject := sign(jwtCustomClaims{
		TokenType:        TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp},
	})
	noExpiry := sign(jwtCustomClaims{
		TokenType:        TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "5"},
	})
	noType := sign(jwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "5", ExpiresAt: exp},
	})
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		TokenType:        TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "5", ExpiresAt: exp},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"malformed", "not.a.jwt", ErrInvalidToken},
		{"garbage", "garbage", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"wrong algorithm", otherAlg, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
		{"refresh token as access token", refresh, ErrWrongTokenType},
		{"non numeric subject", nonNumericSubject, ErrInvalidToken},
		{"missing expiry", noExpiry, ErrInvalidToken},
		{"missing type", noType, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(ctx, tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("access token as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(ctx, access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJWTServiceConfig(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512", ""} {
		cfg := DefaultJWTConfig()
		cfg.SigningAlgorithm = alg
		svc, err := NewJWTService(cfg)
		require.NoError(t, err, alg)

		token, err := svc.GenerateToken(context.Background(), 9)
		require.NoError(t, err, alg)
		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err, alg)
		assert.Equal(t, strconv.Itoa(9), claims.Subject)
	}

	badAlg := DefaultJWTConfig()
	badAlg.SigningAlgorithm = "RS256"
	_, err := NewJWTService(badAlg)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	shortSecret := DefaultJWTConfig()
	shortSecret.JWTSecret = "short"
	_, err = NewJWTService(shortSecret)
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: TestSecret})
	assert.Error(t, err, "zero lifetimes are rejected")
}
