package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/easel-app/easel/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the easel database.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenPath(paths.DBFile)
}

// OpenPath opens a database at an explicit path. Tests point this at a
// temp file.
func OpenPath(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// migrate runs all schema migrations.
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Commissions. IDs are marketplace order IDs for imported jobs and
		// generated UUIDs for locally created ones, so the key is TEXT.
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			client TEXT DEFAULT '',
			status TEXT NOT NULL DEFAULT 'PENDING',
			payment_status TEXT NOT NULL DEFAULT 'UNPAID',
			due_date TEXT DEFAULT '',
			start_date TEXT DEFAULT '',
			total_cost REAL DEFAULT 0,
			estimated_hours REAL DEFAULT 0,
			service_id TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Service catalog
		`CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT DEFAULT '',
			price REAL DEFAULT 0,
			currency TEXT DEFAULT '',
			open INTEGER DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Key-value store for scheduler state and misc documents
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_due_date ON jobs(due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_services_category ON services(category)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	// ALTER TABLE migrations cannot use IF NOT EXISTS — handle idempotently.
	// SQLite raises "duplicate column name: X" when a column already exists.
	// The modernc.org/sqlite pure-Go driver preserves this exact error string
	// (it mirrors the SQLite C library wording), so the string match is stable.
	// See: https://www.sqlite.org/lang_altertable.html
	alterMigrations := []string{
		`ALTER TABLE jobs ADD COLUMN client TEXT DEFAULT ''`,
	}
	for _, m := range alterMigrations {
		if _, err := db.conn.Exec(m); err != nil {
			if !strings.Contains(err.Error(), "duplicate column name") {
				return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
			}
		}
	}

	return nil
}

// GetKV returns the value stored under key, or "" when absent.
func (db *DB) GetKV(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetKV stores a value under key, replacing any previous value.
func (db *DB) SetKV(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// DeleteKV removes a key. Deleting a missing key is not an error.
func (db *DB) DeleteKV(key string) error {
	_, err := db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
