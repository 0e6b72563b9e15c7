package db

import (
	"path/filepath"
	"testing"
)

func TestConnectSQLite(t *testing.T) {
	database, err := ConnectSQLite(filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if database.Dialect != "sqlite" {
		t.Fatalf("unexpected dialect %q", database.Dialect)
	}
	var one int
	if err := database.DB.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
		t.Fatalf("expected working connection, got %d (%v)", one, err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestConnectRequiresTarget(t *testing.T) {
	if _, err := ConnectSQLite(""); err == nil {
		t.Fatalf("expected error for empty sqlite path")
	}
	if _, err := ConnectPostgres(""); err == nil {
		t.Fatalf("expected error for empty postgres dsn")
	}
}

func TestCloseNilDatabase(t *testing.T) {
	var database *Database
	if err := database.Close(); err != nil {
		t.Fatalf("expected nil close to be a no-op, got %v", err)
	}
}
