package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	c := NewCrypto("correct horse battery staple", salt)

	plaintext := []byte(`{"pinned":true,"snoozed_until":"2026-04-01T09:00:00Z"}`)
	encrypted, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "pinned")

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	encrypted, err := NewCrypto("right", salt).Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = NewCrypto("wrong", salt).Decrypt(encrypted)
	assert.Error(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	_, err = NewCrypto("pw", salt).Decrypt("AAAA")
	assert.Error(t, err)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	a := DeriveKey("pw", salt)
	b := DeriveKey("pw", salt)
	assert.Equal(t, a, b)
	assert.Len(t, a, keySize)

	other, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, DeriveKey("pw", other))
}
