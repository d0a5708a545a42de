package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/core/session"
	"github.com/SinArtur/Sstu-DB/integration/database/redis"
)

func connect(t *testing.T) (*miniredis.Miniredis, redis.Config) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		_, cfg := connect(t)

		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(ctx))
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(ctx, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("bad scheme", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(ctx, redis.Config{ConnectionURL: "http://localhost:6379"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		mr, cfg := connect(t)
		mr.Close()

		_, err := redis.Connect(ctx, cfg)
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})

	t.Run("healthcheck after shutdown", func(t *testing.T) {
		t.Parallel()
		mr, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		mr.Close()
		assert.ErrorIs(t, redis.Healthcheck(client)(ctx), redis.ErrHealthcheckFailed)
	})
}

func TestSessionStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing record", func(t *testing.T) {
		t.Parallel()
		_, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		_, err = redis.NewSessionStore(client).Load(ctx, session.DefaultKey)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("prefix and ttl", func(t *testing.T) {
		t.Parallel()
		mr, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		store := redis.NewSessionStore(client, redis.WithKeyPrefix("p:"), redis.WithTTL(time.Hour))
		require.NoError(t, store.Save(ctx, "k", []byte("v")))

		raw, err := mr.Get("p:k")
		require.NoError(t, err)
		assert.Equal(t, "v", raw)
		assert.Equal(t, time.Hour, mr.TTL("p:k"))

		data, err := store.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(data))

		mr.FastForward(2 * time.Hour)
		_, err = store.Load(ctx, "k")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("no ttl by default", func(t *testing.T) {
		t.Parallel()
		mr, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		cfg.SessionPrefix = "sstu:session:"
		store := redis.NewSessionStoreFromConfig(client, cfg)
		require.NoError(t, store.Save(ctx, session.DefaultKey, []byte("v")))
		assert.True(t, mr.Exists("sstu:session:"+session.DefaultKey))
		assert.Zero(t, mr.TTL("sstu:session:"+session.DefaultKey))
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		mr, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		mr.SetError("ERR failure")
		store := redis.NewSessionStore(client)
		assert.ErrorIs(t, store.Save(ctx, "k", []byte("v")), redis.ErrSessionStore)
		_, err = store.Load(ctx, "k")
		assert.ErrorIs(t, err, redis.ErrSessionStore)
	})

	t.Run("manager round trip", func(t *testing.T) {
		t.Parallel()
		_, cfg := connect(t)
		client, err := redis.Connect(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })

		store := redis.NewSessionStore(client)
		m := session.NewManager(store)
		m.SetAuth(ctx, session.User{ID: 9, Email: "r@s.ru"}, "a", "r")

		restored, err := session.Open(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, m.Snapshot(), restored.Snapshot())
	})
}
