// Package session holds the process-wide client session: the logged in user profile and
// the access/refresh token pair issued by the backend.
//
// The package provides four main types:
//
//   - User: profile record returned by the backend, with unknown fields kept verbatim
//   - Session: immutable snapshot of user and tokens
//   - Manager: the single owner of the current session, safe for concurrent use
//   - Store: durable key-value medium the Manager writes through on every mutation
//
// # Basic Usage
//
// A Manager is constructed once and passed by reference to every consumer:
//
//	store, err := file.New(file.Config{Dir: "~/.config/sstu"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sessions, err := session.Open(ctx, store, session.WithLogger(log))
//	if err != nil {
//		log.Printf("starting with an empty session: %v", err)
//	}
//
//	sessions.SetAuth(ctx, user, access, refresh)
//	sessions.UpdateUser(ctx, session.UserPatch{Email: session.Ptr("c@d.com")})
//	sessions.Logout(ctx)
//
// # Invariants
//
// IsAuthenticated is true if and only if a user and both tokens are present. User and
// tokens change together under one lock, so readers never observe a token without a
// user or a user without tokens.
//
// # Persistence
//
// Each mutation writes the whole record under a single key (default "auth-storage"):
//
//	{"state":{"user":{...},"accessToken":"...","refreshToken":"...","isAuthenticated":true},"version":0}
//
// Writes are ordered: a slow write of an older snapshot never overwrites a newer one.
// Write failures do not roll back the in-memory transition; they are logged and passed
// to the handler registered with WithPersistErrorHandler.
//
// Store implementations live in this package (MemoryStore, EncryptedStore) and under
// integration/ (file, redis, postgres, mongo).
package session
