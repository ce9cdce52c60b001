package storage

import (
	"strings"
)

// IsPostgres reports whether config names a PostgreSQL database.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// New selects a Provider for config: a PostgreSQL URL, ":memory:", a path
// ending in .json, or (default) an SQLite database path.
func New(config string) Provider {
	switch {
	case IsPostgres(config):
		return NewPostgresStore(config)
	case config == ":memory:":
		return NewMemoryStore()
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return NewJSONStore(config)
	default:
		return NewSQLiteStore(config)
	}
}
