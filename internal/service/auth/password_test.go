package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	second, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", first)
	assert.NotEqual(t, first, second, "hashes are salted")

	assert.True(t, hasher.Verify("correct horse", first))
	assert.True(t, hasher.Verify("correct horse", second))
	assert.False(t, hasher.Verify("wrong horse", first))
	assert.False(t, hasher.Verify("correct horse", "not-a-bcrypt-digest"))
	assert.False(t, hasher.Verify("correct horse", ""))

	_, err = hasher.Hash(strings.Repeat("x", 73))
	assert.Error(t, err, "bcrypt rejects inputs over 72 bytes")
}

func TestNewBcryptHasherCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
