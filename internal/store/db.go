package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed schema.sql
var schema string

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DB wraps a SQLite or PostgreSQL connection pool
type DB struct {
	*sqlx.DB
}

// New opens a database with the given driver ("sqlite" or "postgres")
func New(driver, dataSourceName string) (*DB, error) {
	switch driver {
	case "", DriverSQLite:
		return NewSQLite(dataSourceName)
	case DriverPostgres:
		db, err := sqlx.Open(DriverPostgres, dataSourceName)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return &DB{db}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewSQLite opens a SQLite database. A single connection is kept so that
// in-memory databases survive for the life of the pool.
func NewSQLite(dataSourceName string) (*DB, error) {
	db, err := sqlx.Open(DriverSQLite, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates any missing tables and indexes
func (db *DB) RunMigrations(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
