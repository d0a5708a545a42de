// Package pg connects to PostgreSQL through pgx and stores client session
// records in the client_sessions table.
//
//   - Connect: builds a pgxpool.Pool and pings it with exponential retry
//   - Migrate: applies the goose migrations embedded in this package, or the
//     ones found under Config.MigrationsPath when set
//   - Healthcheck: returns a probe function for readiness checks
//   - WithTx / TxFromContext: carry a transaction through a context so
//     SessionStore writes can join it
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsPath    string        `env:"PG_MIGRATIONS_PATH"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		return err
//	}
//
//	mgr, err := session.Open(ctx, pg.NewSessionStore(pool))
//
// Migrate converts the pool to a database/sql handle with stdlib.OpenDBFromPool
// because goose only speaks database/sql.
package pg
