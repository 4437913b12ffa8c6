// Package cache provides pluggable key-value stores for memoizing Spotify API reads.
//
// Stores hold opaque JSON-encoded values and support bulk invalidation by key
// prefix, which is how a user's whole namespace is dropped after a mutation.
// Three backends are provided: [MemoryStore] (default), [SQLiteStore]
// (persistent across restarts) and [RedisStore] (shared across processes).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is the key-value capability injected into the Spotify client.
//
// Implementations must be safe for concurrent use; callers rely on key
// namespacing rather than locking for correctness across users.
type Store interface {
	// Get retrieves the value stored under key. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// DeleteMatched removes every entry whose key begins with prefix.
	DeleteMatched(ctx context.Context, prefix string) error

	// Close releases any resources held by the store.
	Close() error
}

// Fetch returns the cached value under key, computing and storing it on a miss.
//
// Values round-trip through JSON so all backends behave identically. Errors
// from compute propagate unwrapped; store read/write failures surface as
// cache errors.
func Fetch[T any](ctx context.Context, store Store, key string, compute func() (T, error)) (T, error) {
	var zero T

	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("cache get %q: %w", key, err)
	}
	if ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		// Undecodable entry, fall through and recompute.
	}

	value, err := compute()
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := store.Set(ctx, key, encoded); err != nil {
		return zero, fmt.Errorf("cache set %q: %w", key, err)
	}

	return value, nil
}
