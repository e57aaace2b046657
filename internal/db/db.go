// internal/db/db.go
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/unclebandit/hey-mailer/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		// every connection to ":memory:" is its own database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(max(maxOpenConns/4, 1))
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// Migrate applies every pending migration for driver.
func Migrate(db *sqlx.DB, driver, dsn string) error {
	m, closeMigrator, err := newMigrator(db, driver, dsn)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(fmt.Errorf("migrate up: %w", err), closeMigrator())
	}
	return closeMigrator()
}

// Version reports the applied schema version, zero when nothing is applied yet.
func Version(db *sqlx.DB, driver, dsn string) (uint, bool, error) {
	m, closeMigrator, err := newMigrator(db, driver, dsn)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator returns a migrator for driver and the func that releases it.
// The sqlite3 migrator shares db and leaves it open.
func newMigrator(db *sqlx.DB, driver, dsn string) (*migrate.Migrate, func() error, error) {
	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return nil, nil, fmt.Errorf("load migrations: %w", err)
	}

	switch driver {
	case config.DriverPostgres:
		// own connection, released by m.Close
		m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("create migrator: %w", err)
		}
		return m, func() error {
			srcErr, dbErr := m.Close()
			return errors.Join(srcErr, dbErr)
		}, nil
	case config.DriverSQLite:
		// must share the handle, an in-memory database lives on one connection
		drv, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, driver, drv)
		if err != nil {
			return nil, nil, fmt.Errorf("create migrator: %w", err)
		}
		return m, func() error { return src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
