package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/julianstephens/sutrr/internal/errors"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitCreatesKVTable(t *testing.T) {
	store := setupTestStore(t)

	exists, err := store.tableExists("kv")
	if err != nil {
		t.Fatalf("tableExists() returned unexpected error: %v", err)
	}
	if !exists {
		t.Error("kv table should exist after Init")
	}

	exists, err = store.tableExists("KV")
	if err != nil {
		t.Fatalf("tableExists() returned unexpected error: %v", err)
	}
	if !exists {
		t.Error("tableExists() should be case-insensitive")
	}

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if current != latest || latest == 0 {
		t.Errorf("SchemaVersion() = (%d, %d), want equal and non-zero", current, latest)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() should fail when the database file does not exist")
	}
}

func TestLoadRejectsUnmigratedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close()

	store := NewStore(path)
	defer store.Close()
	if err := store.Load(); err == nil {
		t.Error("Load() should fail for a database that was never migrated")
	}
}

func TestKV(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.Get("absent"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}

	if err := store.Set("conversations", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("conversations", []byte(`[]`)); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	got, err := store.Get("conversations")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %s, want []", got)
	}

	if err := store.Set("journal_entries", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "conversations" || keys[1] != "journal_entries" {
		t.Errorf("Keys() = %v, want [conversations journal_entries]", keys)
	}

	if err := store.Delete("conversations"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get("conversations"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := store.Set("first_visit_seen", []byte("true")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("first_visit_seen")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "true" {
		t.Errorf("Get() = %s, want true", got)
	}
}
