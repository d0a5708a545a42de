package session

import (
	"context"
	"fmt"

	"github.com/SinArtur/Sstu-DB/pkg/secrets"
)

// EncryptedStore seals records with AES-GCM before handing them to the wrapped Store.
// The storage key is bound into both the derived key and the additional data, so a
// record copied under another key fails to open.
type EncryptedStore struct {
	next Store
	key  []byte
}

// NewEncryptedStore wraps next with encryption under a 32-byte master key.
func NewEncryptedStore(next Store, masterKey []byte) (*EncryptedStore, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidEncryptionKey)
	}
	if len(masterKey) != secrets.KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidEncryptionKey, secrets.KeySize, len(masterKey))
	}
	return &EncryptedStore{next: next, key: append([]byte(nil), masterKey...)}, nil
}

// Load implements Store. A record that fails to open is reported as ErrInvalidRecord.
func (s *EncryptedStore) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := secrets.DecryptBytes(s.key, key, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return plain, nil
}

// Save implements Store.
func (s *EncryptedStore) Save(ctx context.Context, key string, data []byte) error {
	sealed, err := secrets.EncryptBytes(s.key, key, data)
	if err != nil {
		return err
	}
	return s.next.Save(ctx, key, sealed)
}
