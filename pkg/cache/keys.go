package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PreviewKey returns the cache key for a ghost preview. The key hashes the
// prompt together with the aspect hint so the same prompt at a different
// slot shape synthesizes a fresh draft.
func PreviewKey(prompt string, aspectW, aspectH int) string {
	return hashKey("preview", prompt, aspectW, aspectH)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
