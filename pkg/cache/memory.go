package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process [Cache] with per-entry TTL.
//
// Expiry is evaluated when an entry is read; there is no background sweep.
// Expired entries are removed the next time Get observes them. Values are
// copied on the way in and out, so callers may reuse their buffers.
//
// All methods are safe for concurrent use. Concurrent writes to the same key
// resolve to whichever Set acquires the lock last.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero => no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the time source used for TTL bookkeeping.
// Intended for tests that need to step time deterministically.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache.
// An entry set with TTL t at time s is a hit strictly before s+t and a miss
// from s+t onward.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if entry.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have replaced it.
		if cur, ok := c.entries[key]; ok && cur.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return clone(entry.data), true, nil
}

// Set stores a value in the cache, replacing any previous entry for key and
// restarting its TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: clone(data)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache. Deleting a missing key is not an error.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries that have not yet expired.
func (c *MemoryCache) Len() int {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
