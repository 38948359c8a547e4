package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ParseDriver maps common aliases to a Driver.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", s)
	}
}

// sqlName is the database/sql driver name registered for d.
func (d Driver) sqlName() string {
	if d == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Driver) defaultDSN() string {
	if d == DriverPostgres {
		return "postgres://localhost:5432/mindengage_grades?sslmode=disable"
	}
	return "file:grades.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
}

// Open migrates the schema and returns a connected pool.
func Open(ctx context.Context, driver Driver, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = driver.defaultDSN()
	}
	if err := Migrate(driver, dsn); err != nil {
		return nil, err
	}
	return Connect(ctx, driver, dsn)
}

// Connect opens a pool, tunes it for the driver, applies SQLite pragmas and
// pings the database.
func Connect(ctx context.Context, driver Driver, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = driver.defaultDSN()
	}
	dbx, err := sqlx.Open(driver.sqlName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	tunePool(driver, dbx)

	if err := dbx.PingContext(ctx); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	if driver == DriverSQLite {
		if err := applySQLitePragmas(ctx, dbx); err != nil {
			_ = dbx.Close()
			return nil, err
		}
	}
	return dbx, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func WithTx(ctx context.Context, dbx *sqlx.DB, fn func(*sqlx.Tx) error) (err error) {
	if dbx == nil {
		return errors.New("db: nil handle")
	}
	tx, err := dbx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			err = fmt.Errorf("db: commit: %w", e)
		}
	}()
	err = fn(tx)
	return
}

func tunePool(driver Driver, dbx *sqlx.DB) {
	maxOpen := 20
	maxIdle := 10
	connLife := 45 * time.Minute
	idleLife := 15 * time.Minute

	if driver == DriverSQLite {
		// single writer
		maxOpen = 1
		maxIdle = 1
		connLife = 0
		idleLife = 0
	}

	dbx.SetMaxOpenConns(maxOpen)
	dbx.SetMaxIdleConns(maxIdle)
	dbx.SetConnMaxLifetime(connLife)
	dbx.SetConnMaxIdleTime(idleLife)
}

func applySQLitePragmas(ctx context.Context, dbx *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := dbx.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("db: sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}
