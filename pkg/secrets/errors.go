package secrets

import "errors"

var (
	ErrInvalidKey         = errors.New("secrets: master key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
	ErrDecryptionFailed   = errors.New("secrets: decryption failed")
	ErrKeyDerivation      = errors.New("secrets: key derivation failed")
)
