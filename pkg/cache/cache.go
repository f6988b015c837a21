// Package cache provides the key-value store that sits in front of the
// remote user directory.
//
// # Overview
//
// The [Cache] interface is a byte-oriented store with a per-entry
// time-to-live. Two implementations are provided:
//
//   - [MemoryCache]: process-local, goroutine-safe store with lazy expiry
//   - [NullCache]: never stores anything (caching disabled)
//
// Cached state lives only for the lifetime of the process.
//
// # Keys
//
// Cache keys are produced by a [Keyer] so that every request shape maps to
// exactly one key:
//
//	k := cache.NewDefaultKeyer()
//	k.AllUsersKey()  // "all_users"
//	k.UserKey(7)     // "user_7"
//
// Use [NewScopedKeyer] to isolate clients that talk to different directories
// but share one store.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with per-entry time-to-live.
//
// Get returns (nil, false, nil) when the key was never set or its TTL has
// elapsed; a miss is not an error. Set overwrites any prior value and resets
// the TTL clock. A ttl <= 0 stores the entry without expiry.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
