package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// Migrate applies all up migrations for driver. It uses its own connection
// and closes it when done.
func Migrate(driver Driver, dsn string) error {
	if dsn == "" {
		dsn = driver.defaultDSN()
	}
	src, err := iofs.New(migrationFiles, "migrations/"+string(driver))
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}

	conn, err := sql.Open(driver.sqlName(), dsn)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("migrate: open: %w", err)
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(conn, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver: %s", driver)
	}
	if err != nil {
		_ = src.Close()
		_ = conn.Close()
		return fmt.Errorf("migrate: database: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(driver), target)
	if err != nil {
		_ = src.Close()
		_ = target.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
