// Package db is the persistence gateway: SQLite-backed CRUD for folders,
// requests, environments, and the network settings singleton. Grounded on
// original_source/src/db.rs (pool shape, WAL + foreign_keys pragmas, 5
// connection cap) translated from sqlx to database/sql + modernc.org/sqlite.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB wraps the pooled SQLite connection used by every handler.
type DB struct {
	*sql.DB
}

// Open creates the connection pool for dsn (a sqlite DSN, e.g.
// "file:jslink.db" or ":memory:"), applies pragmas, and runs migrations.
func Open(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("jslink: open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("jslink: %s: %w", pragma, err)
		}
	}

	store := &DB{DB: sqlDB}
	if err := store.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return store, nil
}

func (d *DB) migrate() error {
	if _, err := d.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("jslink: create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("jslink: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int
		row := d.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name)
		if err := row.Scan(&applied); err != nil {
			return fmt.Errorf("jslink: check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}
		contents, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("jslink: read migration %s: %w", name, err)
		}
		if _, err := d.Exec(string(contents)); err != nil {
			return fmt.Errorf("jslink: apply migration %s: %w", name, err)
		}
		if _, err := d.Exec(`INSERT INTO schema_migrations (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("jslink: record migration %s: %w", name, err)
		}
	}
	return nil
}

// ErrNotFound mirrors sqlx::Error::RowNotFound's role in original_source:
// the Get*, Update*, Archive*, Unarchive* and Delete* methods return this
// sentinel unwrapped when the row is missing, so callers compare it with ==
// and map it to the NotFound error kind.
var ErrNotFound = sql.ErrNoRows
