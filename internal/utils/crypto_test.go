package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef"

func TestEncryptDecryptPII(t *testing.T) {
	for _, plaintext := range []string{"ABCDE1234F", "+91-9876543210", "a"} {
		encrypted, err := EncryptPII(plaintext, testKey)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := DecryptPII(encrypted, testKey)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptPIIEmptyPassthrough(t *testing.T) {
	encrypted, err := EncryptPII("", testKey)
	require.NoError(t, err)
	assert.Empty(t, encrypted)

	decrypted, err := DecryptPII("", testKey)
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestDecryptPIIErrors(t *testing.T) {
	_, err := DecryptPII("not-hex", testKey)
	assert.Error(t, err)

	_, err = DecryptPII("abcd", testKey)
	assert.Error(t, err)

	_, err = EncryptPII("data", "short-key")
	assert.Error(t, err)
}
