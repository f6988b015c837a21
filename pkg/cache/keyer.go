package cache

import "fmt"

// Cache key layout shared by every client.
const (
	// AllUsersKey is the key for the aggregated user collection.
	AllUsersKey = "all_users"

	// UserKeyFormat is the fmt layout for single-user keys.
	UserKeyFormat = "user_%d"
)

// Keyer maps request shapes to cache keys. Keys must be deterministic:
// the same request always yields the same key.
type Keyer interface {
	// AllUsersKey returns the key for the full user collection.
	AllUsersKey() string

	// UserKey returns the key for a single user.
	UserKey(id int) string
}

// DefaultKeyer produces the unprefixed key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AllUsersKey returns [AllUsersKey].
func (DefaultKeyer) AllUsersKey() string { return AllUsersKey }

// UserKey returns the key for user id, e.g. "user_7".
func (DefaultKeyer) UserKey(id int) string { return fmt.Sprintf(UserKeyFormat, id) }

// ScopedKeyer wraps a Keyer with a prefix.
// This lets several clients that point at different directories share one
// [Cache] without their entries colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), Namespace(baseURL))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AllUsersKey returns the prefixed collection key.
func (k *ScopedKeyer) AllUsersKey() string {
	return k.prefix + k.inner.AllUsersKey()
}

// UserKey returns the prefixed single-user key.
func (k *ScopedKeyer) UserKey(id int) string {
	return k.prefix + k.inner.UserKey(id)
}
