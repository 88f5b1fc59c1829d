package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// SQL drivers accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Compile-time interface check.
var _ Backend = (*SQLBackend)(nil)

const kvTable = `
	create table if not exists scorekeep_kv (
		name  text primary key,
		value text not null
	);`

// SQLBackend keeps values in a two-column table. The same queries run on
// sqlite and postgres; placeholders are rebound per driver.
type SQLBackend struct {
	db  *sqlx.DB
	log *logger.Logger
}

// OpenSQL connects to dsn and creates the table if needed.
func OpenSQL(driver, dsn string, log *logger.Logger) (*SQLBackend, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, kvTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debug("sql backend: connected (%s)", driver)
	return &SQLBackend{db: db, log: log}, nil
}

// Get reads the value stored under key.
func (s *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := s.db.Rebind(`select value from scorekeep_kv where name = ?`)
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sql key %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("sql get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts key.
func (s *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		insert into scorekeep_kv (name, value) values (?, ?)
		on conflict (name) do update set value = excluded.value`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	s.log.Debug("sql backend: set %s (%d bytes)", key, len(value))
	return nil
}

// Close releases the connection pool.
func (s *SQLBackend) Close() error {
	return s.db.Close()
}
