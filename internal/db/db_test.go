package db

import (
	"path/filepath"
	"testing"
)

func TestOpenPlainAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "focusflow.db")

	database, err := Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	if database.Encrypted {
		t.Error("expected plain database without a password")
	}

	for i := 0; i < 2; i++ {
		if err := database.RunMigrations(); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	v, err := database.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), v)
	}

	for _, table := range []string{"timers", "history"} {
		var n int
		if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
