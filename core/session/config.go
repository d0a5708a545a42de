package session

import (
	"log/slog"
	"time"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

// DefaultSaveTimeout bounds a single write to the Store.
const DefaultSaveTimeout = 5 * time.Second

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithKey sets the storage key of the session record.
func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPersistErrorHandler registers a callback for failed Store writes.
// The in-memory state has already changed when it runs.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(m *Manager) {
		m.onPersistError = fn
	}
}

// WithSaveTimeout bounds each Store write. Zero keeps the default.
func WithSaveTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.saveTimeout = d
		}
	}
}

func defaultLogger() *slog.Logger {
	return logger.Discard()
}
