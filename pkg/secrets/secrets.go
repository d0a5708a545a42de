package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the required master key length in bytes.
const KeySize = 32

// hkdfSalt is fixed so the derived key depends only on master key and scope.
var hkdfSalt = []byte("sstu-db/secrets/v1")

// GenerateKey returns a random 32-byte master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParseKey decodes a base64 (standard or URL alphabet) master key and validates its length.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		key, err = base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// EncryptBytes seals plaintext with a key derived from masterKey and scope.
func EncryptBytes(masterKey []byte, scope string, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(masterKey, scope)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, []byte(scope)), nil
}

// DecryptBytes opens data produced by EncryptBytes with the same key and scope.
func DecryptBytes(masterKey []byte, scope string, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(masterKey, scope)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(ciphertext) < ns+aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	plain, err := aead.Open(nil, ciphertext[:ns], ciphertext[ns:], []byte(scope))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plain, nil
}

// EncryptString is EncryptBytes with base64 output.
func EncryptString(masterKey []byte, scope, plaintext string) (string, error) {
	sealed, err := EncryptBytes(masterKey, scope, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func DecryptString(masterKey []byte, scope, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}
	plain, err := DecryptBytes(masterKey, scope, raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func newAEAD(masterKey []byte, scope string) (cipher.AEAD, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}

	derived := make([]byte, KeySize)
	defer clear(derived)

	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, hkdfSalt, []byte(scope)), derived); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
