// Package sqldb implements the persons and pets repositories on top of
// database/sql through sqlx. Postgres (pgx) and SQLite (modernc) share the
// same queries; placeholders are rebound per driver.
package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-household/internal/platform/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "pgx"
	DriverSQLite   Driver = "sqlite"
)

func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pgx", "postgres", "postgresql":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", s)
	}
}

// Observer is notified about transaction outcomes and retries.
type Observer interface {
	TxFinished(d time.Duration, err error)
	TxRetried()
}

type Options struct {
	Driver Driver
	DSN    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// TxMaxTries bounds attempts for a transaction that keeps failing with a
	// serialization or busy error. Zero means 5.
	TxMaxTries uint

	Observer Observer
	Logger   logger.Logger
}

// DB is the process-wide handle. Build it once at startup and hand it to
// NewStore; it is safe for concurrent use.
type DB struct {
	x        *sqlx.DB
	driver   Driver
	maxTries uint
	obs      Observer
	log      logger.Logger
}

// Open connects and pings the database. It does not run migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	dsn := strings.TrimSpace(opts.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("db dsn is required")
	}
	if opts.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	x, err := sqlx.Open(string(opts.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", opts.Driver, err)
	}

	switch opts.Driver {
	case DriverSQLite:
		// One writer at a time; a second connection would only see SQLITE_BUSY.
		x.SetMaxOpenConns(1)
	default:
		x.SetMaxOpenConns(orInt(opts.MaxOpenConns, 10))
		x.SetMaxIdleConns(orInt(opts.MaxIdleConns, 5))
		x.SetConnMaxIdleTime(orDuration(opts.ConnMaxIdleTime, 5*time.Minute))
		x.SetConnMaxLifetime(orDuration(opts.ConnMaxLifetime, 30*time.Minute))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := x.PingContext(pingCtx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("pinging %s: %w", opts.Driver, err)
	}

	maxTries := opts.TxMaxTries
	if maxTries == 0 {
		maxTries = 5
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &DB{
		x:        x,
		driver:   opts.Driver,
		maxTries: maxTries,
		obs:      opts.Observer,
		log:      log,
	}, nil
}

func (d *DB) Driver() Driver { return d.driver }

func (d *DB) PingContext(ctx context.Context) error { return d.x.PingContext(ctx) }

func (d *DB) Close() error {
	if err := d.x.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

// sqliteDSN enables foreign keys, a busy timeout and WAL unless the caller
// already chose pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") || dsn == ":memory:" {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
