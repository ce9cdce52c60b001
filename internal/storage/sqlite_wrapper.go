package storage

import (
	"database/sql"

	"github.com/julianstephens/sutrr/internal/storage/sqlite"
)

// SQLiteStore wraps sqlite.Store as a Provider
type SQLiteStore struct {
	store *sqlite.Store
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{store: sqlite.NewStore(path)}
}

// Lifecycle methods
func (s *SQLiteStore) Init() error           { return s.store.Init() }
func (s *SQLiteStore) Load() error           { return s.store.Load() }
func (s *SQLiteStore) Close() error          { return s.store.Close() }
func (s *SQLiteStore) GetConfigPath() string { return s.store.GetConfigPath() }
func (s *SQLiteStore) GetDB() *sql.DB        { return s.store.GetDB() }

// KV methods
func (s *SQLiteStore) Get(key string) ([]byte, error)     { return s.store.Get(key) }
func (s *SQLiteStore) Set(key string, value []byte) error { return s.store.Set(key, value) }
func (s *SQLiteStore) Delete(key string) error            { return s.store.Delete(key) }
func (s *SQLiteStore) Keys() ([]string, error)            { return s.store.Keys() }

// Migration methods
func (s *SQLiteStore) Migrate(logFn func(string)) (int, error) { return s.store.Migrate(logFn) }
func (s *SQLiteStore) SchemaVersion() (int, int, error)        { return s.store.SchemaVersion() }
