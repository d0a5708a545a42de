package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SinArtur/Sstu-DB/core/session"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps session records as plain Redis strings.
type SessionStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// StoreOption configures a SessionStore.
type StoreOption func(*SessionStore)

// WithKeyPrefix namespaces record keys.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *SessionStore) {
		s.prefix = prefix
	}
}

// WithTTL expires records ttl after their last save. Zero keeps them forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewSessionStore creates a store on top of an existing client.
func NewSessionStore(client redis.Cmdable, opts ...StoreOption) *SessionStore {
	s := &SessionStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionStoreFromConfig applies the session settings from cfg.
func NewSessionStoreFromConfig(client redis.Cmdable, cfg Config) *SessionStore {
	return NewSessionStore(client, WithKeyPrefix(cfg.SessionPrefix), WithTTL(cfg.SessionTTL))
}

// Load implements session.Store.
func (s *SessionStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Join(ErrSessionStore, err)
	}
	return data, nil
}

// Save implements session.Store.
func (s *SessionStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return errors.Join(ErrSessionStore, err)
	}
	return nil
}
