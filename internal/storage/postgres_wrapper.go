package storage

import (
	"errors"

	"github.com/julianstephens/sutrr/internal/storage/postgres"
)

// PostgresStore wraps postgres.Store as a Provider
type PostgresStore struct {
	store *postgres.Store
}

// NewPostgresStore creates a new PostgreSQL store. The connection string must
// not carry a password; see HasEmbeddedCredentials.
func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{store: postgres.New(connStr)}
}

// HasEmbeddedCredentials reports whether connStr carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// ValidateConnString reports whether connStr is a usable PostgreSQL
// connection string without embedded credentials.
func ValidateConnString(connStr string) error {
	_, err := postgres.ValidateConnString(connStr)
	return err
}

func (s *PostgresStore) Init() error           { return s.store.Init() }
func (s *PostgresStore) Load() error           { return s.store.Load() }
func (s *PostgresStore) Close() error          { return s.store.Close() }
func (s *PostgresStore) GetConfigPath() string { return s.store.GetConfigPath() }

func (s *PostgresStore) Get(key string) ([]byte, error)     { return s.store.Get(key) }
func (s *PostgresStore) Set(key string, value []byte) error { return s.store.Set(key, value) }
func (s *PostgresStore) Delete(key string) error            { return s.store.Delete(key) }
func (s *PostgresStore) Keys() ([]string, error)            { return s.store.Keys() }

func (s *PostgresStore) Migrate(logFn func(string)) (int, error) { return s.store.Migrate(logFn) }
func (s *PostgresStore) SchemaVersion() (int, int, error)        { return s.store.SchemaVersion() }
