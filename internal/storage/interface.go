package storage

import apperrors "github.com/julianstephens/sutrr/internal/errors"

// ErrKeyNotFound is returned (wrapped) by Get when a key is absent.
var ErrKeyNotFound = apperrors.ErrNotFound

// Provider is a byte-valued key-value store. Values are JSON documents that
// are overwritten as a whole on every Set.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utility
	GetConfigPath() string
}

// Migrator is implemented by SQL-backed providers.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current int, latest int, err error)
}
