package cache

import (
	"time"
)

// CacheService is the shared short-lived key/value cache. The fetch layer
// uses it to remember cool-down blocks for URLs that rate limited us, so
// later cycles skip them until the block expires.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
