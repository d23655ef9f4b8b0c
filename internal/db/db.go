package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	Path      string
	Encrypted bool
}

// Open opens the SQLite database at dbPath. With a password the file is
// encrypted through sqlcipher; with an empty password the pure Go driver
// opens a plain database.
func Open(dbPath, password string) (*DB, error) {
	// Create parent directories if they don't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	driver, connStr := "sqlite", dbPath+"?_pragma=busy_timeout(5000)"
	if password != "" {
		driver, connStr = "sqlite3", fmt.Sprintf("%s?_key=%s", dbPath, password)
	}

	sqlDB, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas below are per connection
	sqlDB.SetMaxOpenConns(1)

	// Enable WAL mode so the TUI and CLI can share the file
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Ping to verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, Path: dbPath, Encrypted: password != ""}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
