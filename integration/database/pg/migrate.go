package pg

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies all pending migrations. Without cfg.MigrationsPath the
// migrations shipped with this package are used.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	fsys, dir, err := migrationSource(cfg.MigrationsPath)
	if err != nil {
		return err
	}
	if log == nil {
		log = logger.Discard()
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

func migrationSource(path string) (fs.FS, string, error) {
	if path == "" {
		return embedded, "migrations", nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s", ErrMigrationsDirNotFound, path)
	}
	return os.DirFS(path), ".", nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...), logger.Component("migrations"))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...), logger.Component("migrations"))
}
