package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/sutrr/internal/errors"
	"github.com/julianstephens/sutrr/internal/logger"
)

// ReadJSON decodes the value stored under key. An absent key returns an
// error wrapping ErrKeyNotFound; an unreadable value wraps ErrStorageRead.
func ReadJSON[T any](p Provider, key string) (T, error) {
	var v T
	data, err := p.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return v, err
		}
		return v, fmt.Errorf("%w: %s: %v", apperrors.ErrStorageRead, key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", apperrors.ErrStorageRead, key, err)
	}
	return v, nil
}

// LoadJSON returns the decoded value under key, or def when the key is absent
// or its contents cannot be decoded. Read failures are logged, never returned.
func LoadJSON[T any](p Provider, key string, def T) T {
	v, err := ReadJSON[T](p, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logger.Warn("Ignoring unreadable stored value", "key", key, "error", err)
		}
		return def
	}
	return v
}

// SaveJSON overwrites key with the JSON encoding of v.
func SaveJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrStorageWrite, key, err)
	}
	if err := p.Set(key, data); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrStorageWrite, key, err)
	}
	return nil
}
