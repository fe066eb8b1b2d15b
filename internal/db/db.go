package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database is an open connection pool together with the SQL dialect its
// queries must be written in.
type Database struct {
	*sql.DB
	Dialect Dialect
}

// Conn returns the pool as a DBTX that rebinds placeholders for the dialect.
func (d *Database) Conn() DBTX {
	return WithDialect(d.DB, d.Dialect)
}

// UnitOfWork returns a UnitOfWork over this database.
func (d *Database) UnitOfWork() *SQLUnitOfWork {
	return NewUnitOfWork(d.DB, d.Dialect)
}

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database pinned to one connection
// so every query sees the same schema.
// Sets WAL mode and enables foreign keys.
// Runs migrations automatically.
func OpenDB(path string) (*Database, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Database{DB: db, Dialect: SQLite}, nil
}

// OpenPostgres connects to a PostgreSQL server and runs migrations.
func OpenPostgres(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Database{DB: db, Dialect: Postgres}, nil
}

// Open picks postgres when dsn is set and falls back to the SQLite file.
func Open(dsn, sqlitePath string) (*Database, error) {
	if dsn != "" {
		return OpenPostgres(dsn)
	}
	return OpenDB(sqlitePath)
}
