package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Namespace derives a short, stable key prefix from an arbitrary string such
// as a base URL. The result ends with ':' and is safe to pass to
// [NewScopedKeyer].
func Namespace(s string) string {
	return Hash([]byte(s))[:12] + ":"
}
