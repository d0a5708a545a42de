package secrets_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/pkg/secrets"
)

func TestEncryptDecryptBytes(t *testing.T) {
	t.Parallel()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	require.Len(t, key, secrets.KeySize)

	plain := []byte(`{"state":{"accessToken":"tok1"},"version":0}`)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		sealed, err := secrets.EncryptBytes(key, "auth-storage", plain)
		require.NoError(t, err)
		assert.False(t, bytes.Contains(sealed, []byte("tok1")))

		opened, err := secrets.DecryptBytes(key, "auth-storage", sealed)
		require.NoError(t, err)
		assert.Equal(t, plain, opened)
	})

	t.Run("nonce differs per call", func(t *testing.T) {
		t.Parallel()
		a, err := secrets.EncryptBytes(key, "auth-storage", plain)
		require.NoError(t, err)
		b, err := secrets.EncryptBytes(key, "auth-storage", plain)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("scope mismatch fails", func(t *testing.T) {
		t.Parallel()
		sealed, err := secrets.EncryptBytes(key, "auth-storage", plain)
		require.NoError(t, err)

		_, err = secrets.DecryptBytes(key, "other", sealed)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("tampered data fails", func(t *testing.T) {
		t.Parallel()
		sealed, err := secrets.EncryptBytes(key, "auth-storage", plain)
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xff

		_, err = secrets.DecryptBytes(key, "auth-storage", sealed)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("short ciphertext", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DecryptBytes(key, "auth-storage", []byte("short"))
		assert.ErrorIs(t, err, secrets.ErrCiphertextTooShort)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.EncryptBytes([]byte("short"), "auth-storage", plain)
		assert.ErrorIs(t, err, secrets.ErrInvalidKey)
	})
}

func TestEncryptDecryptString(t *testing.T) {
	t.Parallel()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	sealed, err := secrets.EncryptString(key, "scope", "refresh-token")
	require.NoError(t, err)

	plain, err := secrets.DecryptString(key, "scope", sealed)
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", plain)

	_, err = secrets.DecryptString(key, "scope", "%%%not-base64")
	assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	parsed, err := secrets.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	parsed, err = secrets.ParseKey(base64.RawURLEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = secrets.ParseKey(base64.StdEncoding.EncodeToString([]byte("too short")))
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)

	_, err = secrets.ParseKey("!!!")
	assert.ErrorIs(t, err, secrets.ErrInvalidKey)
}
