package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Typed is a decoded cache entry.
type Typed[T any] struct {
	Value    T
	StoredAt time.Time
	Fresh    bool
}

// GetTyped decodes the entry for key into T. It returns false if the key is
// missing or the stored JSON does not decode into T.
func GetTyped[T any](s *Store, key string) (Typed[T], bool) {
	e, ok := s.Get(key)
	if !ok {
		return Typed[T]{}, false
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return Typed[T]{}, false
	}
	return Typed[T]{Value: v, StoredAt: e.StoredAt, Fresh: e.Fresh}, true
}

// PutTyped encodes value as JSON and stores it.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal typed value for %q: %w", key, err)
	}
	return s.Put(key, data)
}
