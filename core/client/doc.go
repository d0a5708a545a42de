// Package client is the request pipeline between the application and the
// Sstu-DB backend.
//
// Every exchange goes through Client.Do, which attaches the access token held by
// a session.Manager as a Bearer header and recovers from exactly one case: an
// expired access token with a still valid refresh token. On the first 401 the
// client exchanges the refresh token at the token refresh endpoint, stores the
// new pair with session.Manager.RotateTokens and redispatches the request once.
// A second 401 is returned to the caller as an *APIError. When the refresh itself
// fails the session is cleared, the session-expired handler runs and the caller
// receives an error matching ErrSessionExpired.
//
// Basic usage:
//
//	mgr, _ := session.Open(ctx, store)
//	c, err := client.New("https://db.example.com/api", mgr,
//		client.WithLogger(log),
//		client.WithSessionExpiredHandler(func(ctx context.Context, err error) {
//			fmt.Println("session expired, please log in again")
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	var tree []api.Branch
//	if err := c.Get(ctx, "/branches/tree/", nil, &tree); err != nil {
//		return err
//	}
//
// Concurrent requests that hit 401 with the same refresh token share a single
// refresh call. The backend rotates refresh tokens and blacklists the old one,
// so uncoordinated refreshes would invalidate each other.
//
// Each HTTP exchange is bounded by the configured timeout (60s by default).
// Timeouts surface as ErrTimeout and transport failures as ErrTransport; neither
// is retried.
package client
