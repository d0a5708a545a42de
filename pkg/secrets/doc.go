// Package secrets provides AES-256-GCM encryption with HKDF key derivation for data at rest.
//
// A 32-byte master key is combined with a scope label (for example the storage key of a
// session record) through HKDF-SHA256, so records stored under different scopes are
// encrypted with different keys while only one secret has to be configured.
//
// # Usage
//
//	key, err := secrets.GenerateKey()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sealed, err := secrets.EncryptBytes(key, "auth-storage", []byte(`{"state":{}}`))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plain, err := secrets.DecryptBytes(key, "auth-storage", sealed)
//
// Keys travel through configuration as base64:
//
//	key, err := secrets.ParseKey(os.Getenv("SESSION_ENCRYPTION_KEY"))
//
// # Format
//
// Ciphertext layout is nonce (12 bytes) || sealed data || GCM tag (16 bytes).
// String helpers wrap the same layout in standard base64.
//
// # Errors
//
//   - ErrInvalidKey: master key is not 32 bytes
//   - ErrCiphertextTooShort: input shorter than nonce + tag
//   - ErrDecryptionFailed: wrong key, wrong scope or tampered data
package secrets
