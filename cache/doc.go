// Package cache memoizes parsed orders by transcript text.
//
// Keys are the BLAKE2b-256 hex digest of the exact text. Entries live for a
// fixed TTL from insertion and the cache holds a bounded number of them; when
// full, the oldest insertion is evicted to make room for a new key. Values are
// deep-copied on the way in and out so callers never share state with the
// cache.
package cache
