package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	expires := created.Add(7 * 24 * time.Hour)
	rt, err := NewRefreshToken(3, "token-value", created, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rt.OwnerID)
	assert.Equal(t, "token-value", rt.Token)
	assert.Equal(t, created.UTC(), rt.CreatedAt)
	assert.Equal(t, expires.UTC(), rt.ExpiresAt)

	_, err = NewRefreshToken(0, "token-value", created, expires)
	assert.ErrorIs(t, err, ErrEmptyRefreshTokenOwner)

	_, err = NewRefreshToken(3, "", created, expires)
	assert.ErrorIs(t, err, ErrEmptyRefreshToken)

	_, err = NewRefreshToken(3, "token-value", created, created)
	assert.ErrorIs(t, err, ErrInvalidTokenExpiry)
	assert.ErrorIs(t, err, ErrValidation)
}
