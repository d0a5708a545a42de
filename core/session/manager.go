package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

// Manager owns the current session. All reads go through Snapshot and all writes
// through SetAuth, Logout, UpdateUser and RotateTokens. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	current Session
	version uint64

	// saveMu orders writes to the store; savedVersion is the newest version written.
	saveMu       sync.Mutex
	savedVersion uint64

	store          Store
	key            string
	logger         *slog.Logger
	onPersistError func(error)
	saveTimeout    time.Duration
}

// NewManager creates a manager with an empty session. A nil store falls back to a MemoryStore.
// Call Load to rehydrate a previously persisted session.
func NewManager(store Store, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	m := &Manager{
		store:       store,
		key:         DefaultKey,
		logger:      defaultLogger(),
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a manager and rehydrates it from the store.
// The manager is always returned and usable; a non-nil error means it started empty.
func Open(ctx context.Context, store Store, opts ...Option) (*Manager, error) {
	m := NewManager(store, opts...)
	return m, m.Load(ctx)
}

// Load replaces the in-memory session with the persisted record.
// A missing record leaves the session empty and returns nil. A partial record is
// discarded with a warning. Read and decode failures leave the session empty.
func (m *Manager) Load(ctx context.Context) error {
	data, err := m.store.Load(ctx, m.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return errors.Join(ErrLoadSession, err)
	}

	sess, err := DecodeRecord(data)
	if err != nil {
		if errors.Is(err, ErrInconsistentRecord) {
			m.logger.WarnContext(ctx, "discarding partial session record",
				logger.Component("session"),
				logger.StorageKey(m.key),
			)
			return nil
		}
		return err
	}

	m.mu.Lock()
	m.current = sess
	m.version++
	m.savedVersion = m.version
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session restored",
		logger.Component("session"),
		logger.StorageKey(m.key),
		logger.UserID(sess.UserID()),
	)
	return nil
}

// Snapshot returns a deep copy of the current session. It never blocks on I/O.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// IsAuthenticated reports whether a user and both tokens are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.IsAuthenticated
}

// AccessToken returns the current access token or "".
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AccessToken
}

// SetAuth replaces user and both tokens at once. Calls with an empty token are ignored,
// since they would leave a partial session.
func (m *Manager) SetAuth(ctx context.Context, user User, accessToken, refreshToken string) {
	if accessToken == "" || refreshToken == "" {
		m.logger.WarnContext(ctx, "ignoring set auth with empty token",
			logger.Component("session"),
			logger.UserID(user.ID),
		)
		return
	}

	u := user.clone()
	m.mutate(ctx, "set_auth", func(s *Session) bool {
		s.User = u
		s.AccessToken = accessToken
		s.RefreshToken = refreshToken
		return true
	})
}

// Logout clears user and tokens. Calling it on an empty session changes nothing.
func (m *Manager) Logout(ctx context.Context) {
	m.mutate(ctx, "logout", func(s *Session) bool {
		if s.User == nil && s.AccessToken == "" && s.RefreshToken == "" {
			return false
		}
		*s = Session{}
		return true
	})
}

// LogoutIf clears the session unless it already moved on to a refresh token
// other than expectedRefresh. It reports false when that newer session was kept.
func (m *Manager) LogoutIf(ctx context.Context, expectedRefresh string) bool {
	kept := false
	m.mutate(ctx, "logout", func(s *Session) bool {
		if s.RefreshToken != "" && s.RefreshToken != expectedRefresh {
			kept = true
			return false
		}
		if s.User == nil && s.AccessToken == "" && s.RefreshToken == "" {
			return false
		}
		*s = Session{}
		return true
	})
	return !kept
}

// UpdateUser merges patch into the current user without touching the tokens.
// Without a user there is nothing to merge into and the call is ignored.
func (m *Manager) UpdateUser(ctx context.Context, patch UserPatch) {
	m.mutate(ctx, "update_user", func(s *Session) bool {
		if s.User == nil {
			return false
		}
		patch.apply(s.User)
		return true
	})
}

// RotateTokens stores a refreshed token pair, keeping the current user.
// It applies only while the session is authenticated with expectedRefresh, so a
// refresh that completes after a logout or a newer login does not resurrect or
// overwrite anything. An empty refreshToken keeps the current one.
func (m *Manager) RotateTokens(ctx context.Context, expectedRefresh, accessToken, refreshToken string) bool {
	if accessToken == "" {
		return false
	}
	return m.mutate(ctx, "rotate_tokens", func(s *Session) bool {
		if !s.IsAuthenticated || s.RefreshToken != expectedRefresh {
			return false
		}
		s.AccessToken = accessToken
		if refreshToken != "" {
			s.RefreshToken = refreshToken
		}
		return true
	})
}

// mutate applies fn to a copy of the current session and, when fn reports a change,
// publishes the copy and persists it.
func (m *Manager) mutate(ctx context.Context, action string, fn func(*Session) bool) bool {
	m.mu.Lock()
	next := m.current.Clone()
	if !fn(&next) {
		m.mu.Unlock()
		return false
	}
	next.IsAuthenticated = next.authenticated()
	m.current = next
	m.version++
	v := m.version
	m.mu.Unlock()

	m.persist(ctx, v, action)
	return true
}

// persist writes the newest snapshot unless a write at least as new has already happened.
func (m *Manager) persist(ctx context.Context, v uint64, action string) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.RLock()
	if v <= m.savedVersion {
		m.mu.RUnlock()
		return
	}
	snap := m.current.Clone()
	latest := m.version
	m.mu.RUnlock()

	data, err := EncodeRecord(snap)
	if err != nil {
		m.reportPersistError(ctx, action, err)
		return
	}

	// The write must finish even if the caller's request was cancelled.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.saveTimeout)
	defer cancel()

	if err := m.store.Save(saveCtx, m.key, data); err != nil {
		m.reportPersistError(ctx, action, errors.Join(ErrSaveSession, err))
		return
	}

	m.mu.Lock()
	if latest > m.savedVersion {
		m.savedVersion = latest
	}
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session persisted",
		logger.Component("session"),
		logger.Action(action),
		logger.StorageKey(m.key),
		logger.UserID(snap.UserID()),
	)
}

func (m *Manager) reportPersistError(ctx context.Context, action string, err error) {
	m.logger.ErrorContext(ctx, "failed to persist session",
		logger.Component("session"),
		logger.Action(action),
		logger.StorageKey(m.key),
		logger.Error(err),
	)
	if m.onPersistError != nil {
		m.onPersistError(err)
	}
}
