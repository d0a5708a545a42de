package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestTiming(t *testing.T) {
	t.Parallel()
	d := 150 * time.Millisecond

	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())

	attr = logger.Latency(d)
	require.Equal(t, "latency", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestHTTPAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"method", logger.Method("POST"), "method", "POST"},
		{"path", logger.Path("/auth/login/"), "path", "/auth/login/"},
		{"host", logger.Host("rasp.sstu.ru"), "host", "rasp.sstu.ru"},
		{"request id", logger.RequestID("req-1"), "request_id", "req-1"},
		{"status", logger.StatusCode(401), "status_code", int64(401)},
		{"attempt", logger.Attempt(2), "attempt", int64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestEmptyValues(t *testing.T) {
	t.Parallel()
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Host("").Equal(slog.Attr{}))
	assert.True(t, logger.UserID(0).Equal(slog.Attr{}))
	assert.True(t, logger.StorageKey("").Equal(slog.Attr{}))
}

func TestSessionAttrs(t *testing.T) {
	t.Parallel()

	attr := logger.UserID(42)
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, int64(42), attr.Value.Int64())

	attr = logger.StorageKey("auth-storage")
	require.Equal(t, "storage_key", attr.Key)
	assert.Equal(t, "auth-storage", attr.Value.String())

	attr = logger.Backend("redis")
	require.Equal(t, "backend", attr.Key)
	assert.Equal(t, "redis", attr.Value.String())
}

func TestMetadata(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "client", logger.Component("client").Value.String())
	assert.Equal(t, "refresh", logger.Action("refresh").Value.String())
	assert.Equal(t, "failure", logger.Result("failure").Value.String())
}
