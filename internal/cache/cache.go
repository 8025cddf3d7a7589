package cache

import "time"

// Cache is a key-value store with per-entry TTL.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value. A ttl <= 0 never expires.
	Set(key K, value V, ttl time.Duration)

	// Delete removes a key if present and bumps its generation.
	Delete(key K)

	// Generation returns a counter that changes whenever key is deleted or
	// the cache is cleared.
	Generation(key K) uint64

	// SetIfGeneration stores the value only while key's generation still
	// equals gen, and reports whether it did.
	SetIfGeneration(key K, value V, ttl time.Duration, gen uint64) bool

	// Len returns the number of live entries.
	Len() int

	// Clear removes all entries and bumps every generation.
	Clear()

	// PurgeExpired removes expired entries.
	PurgeExpired()
}
