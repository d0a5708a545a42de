// Package redis connects to Redis and stores client session records in it.
//
// Connect builds a go-redis client from a URL, retries the initial ping with
// exponential backoff and returns only once the server answers. Healthcheck
// returns a probe function for readiness checks.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewSessionStore(client, redis.WithKeyPrefix("sstu:"), redis.WithTTL(30*24*time.Hour))
//	mgr, err := session.Open(ctx, store)
//
// # Configuration
//
//	REDIS_URL              (default: redis://localhost:6379/0)
//	REDIS_RETRY_ATTEMPTS   (default: 3)
//	REDIS_RETRY_INTERVAL   (default: 5s)
//	REDIS_CONNECT_TIMEOUT  (default: 30s)
//	REDIS_SESSION_PREFIX   (default: sstu:session:)
//	REDIS_SESSION_TTL      (default: 0, no expiry)
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Errors
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL or unsupported scheme
//   - ErrRedisNotReady: no successful ping within the retry budget
//   - ErrHealthcheckFailed: probe ping failed
package redis
