package storage

import (
	"path/filepath"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore()

	if _, ok, _ := store.Get("missing"); ok {
		t.Error("Expected missing key to report absent")
	}

	if err := store.Set("logs", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get("logs")
	if err != nil || !ok {
		t.Fatalf("Expected value, ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("Unexpected value %q", value)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if _, ok, _ := store.Get("logs"); ok {
		t.Error("Expected fresh database to have no keys")
	}

	if err := store.Set("logs", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set("logs", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	value, ok, err := store.Get("logs")
	if err != nil || !ok {
		t.Fatalf("Expected value, ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("Expected overwritten value, got %q", value)
	}

	// A second handle on the same file sees the persisted value.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	value, ok, err = reopened.Get("logs")
	if err != nil || !ok {
		t.Fatalf("Expected value after reopen, ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("Expected persisted value after reopen, got %q", value)
	}
}

func TestSQLiteStorePing(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.Ping(); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
}
