package store

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestXDG sets XDG env vars to a temp directory for isolated testing.
func setupTestXDG(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

func TestOpenAndClose(t *testing.T) {
	tmpDir := setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Conn() == nil {
		t.Fatal("Conn() returned nil")
	}

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "easel", "easel.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Database file not created at %s: %v", dbPath, err)
	}
}

func TestMigrationsCreateTables(t *testing.T) {
	setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	// Check all expected tables exist
	tables := []string{"migrations", "jobs", "services", "kv"}
	for _, table := range tables {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Table %q not found: %v", table, err)
		}
	}
}

func TestWALMode(t *testing.T) {
	setupTestXDG(t)

	db, err := Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var journalMode string
	err = db.Conn().QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("Querying journal_mode failed: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %q", journalMode)
	}
}

func TestDoubleOpen(t *testing.T) {
	setupTestXDG(t)

	db1, err := Open()
	if err != nil {
		t.Fatalf("First Open failed: %v", err)
	}
	defer db1.Close()

	// Opening again should not fail (migrations are idempotent)
	db2, err := Open()
	if err != nil {
		t.Fatalf("Second Open failed: %v", err)
	}
	defer db2.Close()
}

func TestKVRoundTrip(t *testing.T) {
	db, err := OpenPath(filepath.Join(t.TempDir(), "easel.db"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	defer db.Close()

	if v, err := db.GetKV("missing"); err != nil || v != "" {
		t.Errorf("missing key should read as empty, got %q (%v)", v, err)
	}

	if err := db.SetKV("scheduler_state", `{"tasks":[]}`); err != nil {
		t.Fatalf("SetKV failed: %v", err)
	}
	if err := db.SetKV("scheduler_state", `{"tasks":[1]}`); err != nil {
		t.Fatalf("SetKV overwrite failed: %v", err)
	}

	v, err := db.GetKV("scheduler_state")
	if err != nil {
		t.Fatalf("GetKV failed: %v", err)
	}
	if v != `{"tasks":[1]}` {
		t.Errorf("expected overwritten value, got %q", v)
	}

	if err := db.DeleteKV("scheduler_state"); err != nil {
		t.Fatalf("DeleteKV failed: %v", err)
	}
	if v, _ := db.GetKV("scheduler_state"); v != "" {
		t.Errorf("deleted key should read as empty, got %q", v)
	}
	if err := db.DeleteKV("scheduler_state"); err != nil {
		t.Errorf("deleting a missing key must not error: %v", err)
	}
}
