package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken hashes a bearer token for use as a cache key. Raw tokens never
// appear as keys, so a cache dump cannot leak usable credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
