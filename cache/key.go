package cache

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Key returns the cache key for a transcript: the hex BLAKE2b-256 digest of
// its exact bytes.
func Key(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
