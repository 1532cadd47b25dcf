package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamassss/slinkr/migrations"
	"github.com/jmoiron/sqlx"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	driverSQLite = "sqlite"
	driverLibSQL = "libsql"
)

// Open connects to a local SQLite file (or ":memory:") through the pure-Go
// driver, or to a remote libsql/Turso database when path is a libsql://,
// wss:// or https:// URL, and applies the schema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	const op = "sqlite.Open"

	driver, dsn, err := dataSource(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	if driver == driverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to apply schema: %w", op, err)
	}

	return db, nil
}

func dataSource(path string) (driver, dsn string, err error) {
	for _, scheme := range []string{"libsql://", "wss://", "https://"} {
		if strings.HasPrefix(path, scheme) {
			return driverLibSQL, path, nil
		}
	}

	if path == "" || path == ":memory:" {
		return driverSQLite, "file::memory:?" + pragmas(false), nil
	}

	name := strings.TrimPrefix(path, "file:")
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", "", fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return driverSQLite, "file:" + name + sep + pragmas(true), nil
}

func pragmas(wal bool) string {
	p := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if wal {
		p += "&_pragma=journal_mode(WAL)"
	}
	return p
}

func applySchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(migrations.SQLite, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
