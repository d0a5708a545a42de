package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/config"
	"github.com/SinArtur/Sstu-DB/core/logger"
	"github.com/SinArtur/Sstu-DB/core/session"
	"github.com/SinArtur/Sstu-DB/integration/database/mongo"
	"github.com/SinArtur/Sstu-DB/integration/database/pg"
	"github.com/SinArtur/Sstu-DB/integration/database/redis"
	"github.com/SinArtur/Sstu-DB/integration/storage/file"
	"github.com/SinArtur/Sstu-DB/pkg/secrets"
)

const expiredHint = "session expired, run `sstu login`"

var errUnknownBackend = errors.New("unknown session backend")

// app holds what a command invocation needs. It is opened once per run by
// the root command and closed after it.
type app struct {
	cfg    cliConfig
	log    *slog.Logger
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	// store overrides the configured backend.
	store session.Store

	session *session.Manager
	api     *api.API
	closers []func()

	// health pings the session backend. Nil for local backends.
	health func(context.Context) error

	// expiredShown is set once the session-expired hint has been printed.
	expiredShown atomic.Bool
}

// run executes the command line, releases backend connections and reports a
// failure on stderr.
func (a *app) run(ctx context.Context, args []string) error {
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrSessionExpired) && a.expiredShown.Load() {
		return err
	}
	fmt.Fprintln(a.stderr, "sstu:", describe(err))
	return err
}

func (a *app) open(ctx context.Context) error {
	store, err := a.openStore(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "session store unavailable",
			logger.Component("cli"),
			logger.Backend(a.cfg.Backend),
			logger.Result("failure"),
			logger.Error(err),
		)
		return err
	}
	a.log.DebugContext(ctx, "session store opened",
		logger.Component("cli"),
		logger.Backend(a.cfg.Backend),
		logger.Result("success"),
	)
	if a.cfg.EncryptionKey != "" {
		key, err := secrets.ParseKey(a.cfg.EncryptionKey)
		if err != nil {
			return fmt.Errorf("SESSION_ENCRYPTION_KEY: %w", err)
		}
		if store, err = session.NewEncryptedStore(store, key); err != nil {
			return err
		}
	}

	a.session, err = session.Open(ctx, store,
		session.WithKey(a.cfg.SessionKey),
		session.WithLogger(a.log),
		session.WithPersistErrorHandler(func(err error) {
			fmt.Fprintln(a.stderr, "warning: session not saved:", err)
		}),
	)
	switch {
	case errors.Is(err, session.ErrInvalidRecord):
		// The manager starts empty and the next login overwrites the record.
		a.log.WarnContext(ctx, "ignoring unreadable session record",
			logger.Component("cli"),
			logger.StorageKey(a.cfg.SessionKey),
			logger.Error(err),
		)
		fmt.Fprintln(a.stderr, "warning: stored session is unreadable, log in again")
	case err != nil:
		return err
	}

	c, err := client.NewFromConfig(a.cfg.API, a.session,
		client.WithLogger(a.log),
		client.WithSessionExpiredHandler(func(context.Context, error) {
			a.expiredShown.Store(true)
			fmt.Fprintln(a.stderr, expiredHint)
		}),
	)
	if err != nil {
		return err
	}
	a.api = api.New(c)
	return nil
}

func (a *app) openStore(ctx context.Context) (session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	switch strings.ToLower(a.cfg.Backend) {
	case backendFile, "":
		return file.NewFromConfig(a.cfg.File)

	case backendMemory:
		return session.NewMemoryStore(), nil

	case backendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		rc, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		a.health = redis.Healthcheck(rc)
		return redis.NewSessionStoreFromConfig(rc, cfg), nil

	case backendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		a.health = pg.Healthcheck(pool)
		if err := pg.Migrate(ctx, pool, cfg, a.log); err != nil {
			return nil, err
		}
		return pg.NewSessionStore(pool), nil

	case backendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Client().Disconnect(context.Background()) })
		a.health = mongo.Healthcheck(db.Client())
		return mongo.NewSessionStore(db, mongo.DefaultSessionCollection), nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownBackend, a.cfg.Backend)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// prompt reads one line from stdin after printing label to stderr.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.stderr, label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// requireLogin fails fast when there is no session to send.
func (a *app) requireLogin() (*session.User, error) {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated {
		return nil, errNotLoggedIn
	}
	return snap.User, nil
}

var errNotLoggedIn = errors.New("not logged in, run `sstu login`")

func newLogger(cfg cliConfig, w io.Writer) *slog.Logger {
	mode := logger.WithProduction("sstu")
	if cfg.Env == "development" {
		mode = logger.WithDevelopment("sstu")
	}
	return logger.New(mode, logger.WithTextFormatter(), logger.WithOutput(w), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
}
