package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTokenKey(t *testing.T) {
	key, err := GenerateTokenKey()

	assert.NoError(t, err)
	assert.Len(t, key, TokenKeyLength)

	_, err = hex.DecodeString(key)
	assert.NoError(t, err)
}

func TestGenerateTokenKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateTokenKey()
		assert.NoError(t, err)
		assert.False(t, seen[key])
		seen[key] = true
	}
}
