package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("string password", func(t *testing.T) {
		t.Parallel()
		hash, err := HashPassword("mypassword")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()
		_, err := HashPassword(make([]byte, 73))
		assert.Error(t, err)
	})
}

func TestComparePassword(t *testing.T) {
	t.Parallel()

	password := "correctpassword"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(password, hash))
	assert.NoError(t, ComparePassword([]byte(password), hash))
	assert.Error(t, ComparePassword("wrongpassword", hash))
}

func TestDecoyHash_NeverMatchesCommonInput(t *testing.T) {
	t.Parallel()
	assert.Error(t, ComparePassword("pw123", decoyHash()))
	assert.Equal(t, decoyHash(), decoyHash())
}
