package storage

import (
	"testing"
	"time"

	"waygen/internal/config"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Migrations must be idempotent.
	if err := Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	for _, table := range []string{"users", "sessions", "messages", "reports"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	_, err = db.Exec(`INSERT INTO messages (session_id, role, content, created_at) VALUES (999, 'user', 'x', ?)`,
		time.Now().UTC())
	if err == nil {
		t.Fatalf("expected foreign key violation for orphan message")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"postgres": {DSN: "whatever"},
		},
	}
	if _, err := Open("postgres", cfg); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open("sqlite3", cfg); err == nil {
		t.Fatalf("expected error for missing driver config")
	}
}
