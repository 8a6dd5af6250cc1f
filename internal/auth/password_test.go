package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("sample123", DefaultBcryptCost)

	assert.NoError(t, err)
	assert.NotEqual(t, "sample123", hash)
	assert.True(t, CheckPassword("sample123", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestHashPassword_ZeroCostFallsBackToDefault(t *testing.T) {
	hash, err := HashPassword("sample123", 0)

	assert.NoError(t, err)
	assert.True(t, CheckPassword("sample123", hash))
}

func TestUnusablePassword(t *testing.T) {
	marker := UnusablePassword()

	assert.False(t, IsUsable(marker))
	// An unusable marker verifies nothing, including itself and empty input.
	assert.False(t, CheckPassword("", marker))
	assert.False(t, CheckPassword(marker, marker))
	assert.False(t, CheckPassword("sample123", marker))

	// Two passwordless accounts never share a hash value.
	assert.NotEqual(t, marker, UnusablePassword())
}

func TestIsUsable(t *testing.T) {
	hash, err := HashPassword("sample123", DefaultBcryptCost)
	assert.NoError(t, err)

	assert.True(t, IsUsable(hash))
	assert.False(t, IsUsable(""))
	assert.False(t, IsUsable(UnusablePassword()))
}
